// Package status provides a thread-safe snapshot of controller state for
// readers outside the tick loop: the HTTP status server and the
// websocket push handler.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/boiler-controller/internal/controller"
)

// Config carries daemon configuration for display alongside controller
// state.
type Config struct {
	Broker     string
	HTTPAddr   string
	PeriodSecs float64
	WSEnabled  bool
}

// Snapshot is a point-in-time view of controller and daemon state. It is
// a value type, safe to use after the tracker's lock is released.
type Snapshot struct {
	Tick          controller.TickResult
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds the latest tick result behind an RWMutex so the tick
// loop's writer never blocks on a slow HTTP reader.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{StartTime: startTime, Config: cfg},
	}
}

// Update records the result of the most recently completed tick. Called
// from the cycle driver after every Tick.
func (t *Tracker) Update(tick controller.TickResult) {
	t.mu.Lock()
	t.snap.Tick = tick
	t.mu.Unlock()
}

// SetMQTTConnected records the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the tracked state, with Now
// set to the time of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
