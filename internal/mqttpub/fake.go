package mqttpub

import (
	"time"

	"github.com/sweeney/boiler-controller/internal/controller"
)

// FakePublisher records published ticks and events for test assertions.
type FakePublisher struct {
	Ticks    []controller.TickResult
	Payloads [][]byte

	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool

	// Now, if set, is used instead of time.Now for FormatPayload timestamps
	// so tests get deterministic output.
	Now func() time.Time
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Publish records the tick result.
func (f *FakePublisher) Publish(tick controller.TickResult) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Ticks = append(f.Ticks, tick)
	payload, err := FormatPayload(tick, f.now())
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Ticks = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
