package relay

import (
	"errors"
	"testing"
)

func TestFakeDriverSetPumpRecordsState(t *testing.T) {
	f := NewFakeDriver(3)
	if err := f.SetPump(1, true); err != nil {
		t.Fatalf("SetPump: %v", err)
	}
	if !f.PumpState[1] {
		t.Errorf("expected pump 1 open")
	}
	if f.PumpState[0] || f.PumpState[2] {
		t.Errorf("expected pumps 0 and 2 untouched")
	}
}

func TestFakeDriverSetValveRecordsState(t *testing.T) {
	f := NewFakeDriver(2)
	if err := f.SetValve(true); err != nil {
		t.Fatalf("SetValve: %v", err)
	}
	if !f.ValveOpen {
		t.Errorf("expected valve open")
	}
}

func TestFakeDriverCallOrdering(t *testing.T) {
	f := NewFakeDriver(2)
	_ = f.SetPump(0, true)
	_ = f.SetValve(true)
	_ = f.SetPump(1, true)

	want := []Call{
		{Pump: 0, Open: true},
		{Pump: -1, Open: true, Valve: true},
		{Pump: 1, Open: true},
	}
	if len(f.Calls) != len(want) {
		t.Fatalf("Calls: got %d, want %d", len(f.Calls), len(want))
	}
	for i, c := range want {
		if f.Calls[i] != c {
			t.Errorf("Calls[%d]: got %+v, want %+v", i, f.Calls[i], c)
		}
	}
}

func TestFakeDriverSetPumpError(t *testing.T) {
	f := NewFakeDriver(1)
	f.SetPumpError = errors.New("relay stuck")
	if err := f.SetPump(0, true); err == nil {
		t.Fatalf("expected error")
	}
	if f.PumpState[0] {
		t.Errorf("expected no state change on error")
	}
}

func TestFakeDriverClose(t *testing.T) {
	f := NewFakeDriver(1)
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Errorf("expected Closed true")
	}
}

func TestNoopDriverDiscardsCalls(t *testing.T) {
	var d NoopDriver
	if err := d.SetPump(0, true); err != nil {
		t.Errorf("SetPump: %v", err)
	}
	if err := d.SetValve(true); err != nil {
		t.Errorf("SetValve: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
