package relay

// FakeDriver is a test double recording every actuation call.
type FakeDriver struct {
	PumpState []bool
	ValveOpen bool

	// Calls records every SetPump/SetValve call in order, for tests that
	// care about ordering rather than just final state.
	Calls []Call

	Closed bool

	SetPumpError  error
	SetValveError error
}

// Call records a single SetPump or SetValve invocation.
type Call struct {
	Pump  int // -1 for a valve call
	Open  bool
	Valve bool
}

// NewFakeDriver creates a FakeDriver for a boiler with numPumps pumps, all
// initially closed.
func NewFakeDriver(numPumps int) *FakeDriver {
	return &FakeDriver{PumpState: make([]bool, numPumps)}
}

// SetPump records and applies the pump state.
func (f *FakeDriver) SetPump(i int, open bool) error {
	if f.SetPumpError != nil {
		return f.SetPumpError
	}
	f.PumpState[i] = open
	f.Calls = append(f.Calls, Call{Pump: i, Open: open})
	return nil
}

// SetValve records and applies the valve state.
func (f *FakeDriver) SetValve(open bool) error {
	if f.SetValveError != nil {
		return f.SetValveError
	}
	f.ValveOpen = open
	f.Calls = append(f.Calls, Call{Pump: -1, Open: open, Valve: true})
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}
