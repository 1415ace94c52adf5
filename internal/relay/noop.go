package relay

// NoopDriver discards every actuation. It's the driver cmd/boiler-controller
// uses unless -relay is given, in which case simplant is the only
// thing that needs to see pump/valve state and it gets that from the
// mailbox directly, not from GPIO.
type NoopDriver struct{}

// SetPump does nothing.
func (NoopDriver) SetPump(i int, open bool) error { return nil }

// SetValve does nothing.
func (NoopDriver) SetValve(open bool) error { return nil }

// Close does nothing.
func (NoopDriver) Close() error { return nil }
