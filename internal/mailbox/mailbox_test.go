package mailbox

import "testing"

func TestBufferSendAndRead(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: LevelV, Double: 500})
	b.Send(Message{Kind: OpenPumpN, Int: 2})

	if b.Size() != 2 {
		t.Fatalf("Size: got %d, want 2", b.Size())
	}
	if b.Read(0).Kind != LevelV || b.Read(0).Double != 500 {
		t.Errorf("Read(0): got %+v", b.Read(0))
	}
	if b.Read(1).Kind != OpenPumpN || b.Read(1).Int != 2 {
		t.Errorf("Read(1): got %+v", b.Read(1))
	}
}

func TestBufferReset(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: Valve})
	b.Reset()
	if b.Size() != 0 {
		t.Errorf("Size after Reset: got %d, want 0", b.Size())
	}
}

func TestOnlyMatchSingle(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: LevelV, Double: 1})
	b.Send(Message{Kind: SteamV, Double: 2})

	m, ok := OnlyMatch(b, LevelV)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Double != 1 {
		t.Errorf("match: got %+v", m)
	}
}

func TestOnlyMatchAbsent(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: SteamV})
	if _, ok := OnlyMatch(b, LevelV); ok {
		t.Error("expected no match")
	}
}

func TestOnlyMatchDuplicate(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: LevelV, Double: 1})
	b.Send(Message{Kind: LevelV, Double: 2})
	if _, ok := OnlyMatch(b, LevelV); ok {
		t.Error("expected no match for duplicate messages")
	}
}

func TestAllMatches(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: PumpStateNB, Int: 0, Bool: true})
	b.Send(Message{Kind: PumpStateNB, Int: 1, Bool: false})
	b.Send(Message{Kind: LevelV})

	matches := AllMatches(b, PumpStateNB)
	if len(matches) != 2 {
		t.Fatalf("AllMatches: got %d, want 2", len(matches))
	}
	if matches[0].Int != 0 || matches[1].Int != 1 {
		t.Errorf("AllMatches order: got %+v", matches)
	}
}

func TestAllMatchesEmpty(t *testing.T) {
	b := NewBuffer()
	b.Send(Message{Kind: LevelV})
	if matches := AllMatches(b, PumpStateNB); matches != nil {
		t.Errorf("expected nil, got %+v", matches)
	}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		ModeInitialisation: "INITIALISATION",
		ModeReady:          "READY",
		ModeNormal:         "NORMAL",
		ModeDegraded:       "DEGRADED",
		ModeRescue:         "RESCUE",
		ModeEmergencyStop:  "EMERGENCY_STOP",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String(): got %q, want %q", mode, got, want)
		}
	}
}
