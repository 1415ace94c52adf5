package mqttpub

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/boiler-controller/internal/controller"
)

// bufferCapacity bounds how many messages RealPublisher holds while the
// broker connection is down. Past this, the oldest buffered message is
// dropped to make room for the newest (see ringBuffer.push).
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker, buffering messages
// across disconnects rather than dropping them outright.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker. Its
// OnConnect handler flushes anything buffered while disconnected.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("boiler-controller").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.flush() })

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// Publish sends a tick result to the broker. QoS 0 (at-most-once): ticks
// arrive every period, so a dropped one is superseded moments later.
func (p *RealPublisher) Publish(tick controller.TickResult) error {
	payload, err := FormatPayload(tick, time.Now())
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: Topic, payload: payload, qos: 0, retained: false})
}

// PublishSystem sends a system lifecycle event to the broker. QoS 1
// (at-least-once): startup/shutdown events are rare and worth the extra
// delivery guarantee.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// send publishes msg directly if connected; otherwise it buffers it for
// the next OnConnect flush, closing the gap the teacher's buffer.go left
// open — it defined a ring buffer but real.go never called it.
func (p *RealPublisher) send(msg bufferedMsg) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return fmt.Errorf("not connected: buffered for later delivery")
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// flush drains anything buffered while disconnected and republishes it in
// order. Errors are logged, not returned — it runs from paho's connect
// callback, which has no caller to report to.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	pending := p.buf.drainAll()
	p.mu.Unlock()

	for _, msg := range pending {
		token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqttpub: flush of buffered message to %s timed out", msg.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqttpub: flush of buffered message to %s failed: %v", msg.topic, err)
		}
	}
}

// IsConnected reports whether the underlying client is currently
// connected to the broker.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
