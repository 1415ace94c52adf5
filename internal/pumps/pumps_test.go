package pumps

import (
	"testing"

	"github.com/sweeney/boiler-controller/internal/config"
)

func testConfig() config.StaticConfig {
	return config.StaticConfig{
		Pumps:    []float64{10, 10, 10, 10},
		Cap:      1000,
		WMin:     400,
		WMax:     600,
		WSafeLo:  100,
		WSafeHi:  900,
		SteamMax: 10,
	}
}

func TestChooseCountAboveMax(t *testing.T) {
	p := Planner{}
	k, _, _ := p.ChooseCount(650, 8, testConfig())
	if k != 0 {
		t.Errorf("ChooseCount above W_max: got k=%d, want 0", k)
	}
}

func TestChooseCountBelowMin(t *testing.T) {
	p := Planner{}
	k, _, _ := p.ChooseCount(300, 8, testConfig())
	if k != 4 {
		t.Errorf("ChooseCount below W_min: got k=%d, want 4", k)
	}
}

func TestChooseCountWithinBandPicksFeasible(t *testing.T) {
	p := Planner{}
	k, lo, hi := p.ChooseCount(500, 8, testConfig())
	if k < 0 || k > 4 {
		t.Fatalf("ChooseCount in-band: got k=%d out of range", k)
	}
	if !(hi < 600 && lo > 400) {
		t.Errorf("chosen k=%d violates band constraints: lo=%v hi=%v", k, lo, hi)
	}
}

func TestChooseCountNoFeasibleK(t *testing.T) {
	p := Planner{}
	// Every pump capacity is huge relative to the band, so any k>0 blows
	// past W_max, and k=0 alone (w=420, so lo = 420 - 5*10 = 370) can't
	// satisfy lo > W_min either.
	cfg := config.StaticConfig{
		Pumps:    []float64{1000, 1000},
		Cap:      1000,
		WMin:     400,
		WMax:     600,
		WSafeLo:  100,
		WSafeHi:  900,
		SteamMax: 10,
	}
	k, _, _ := p.ChooseCount(420, 8, cfg)
	if k != NoFeasibleCount {
		t.Errorf("expected NoFeasibleCount sentinel, got k=%d", k)
	}
}

func TestSelectTogglesCloseHighestFirst(t *testing.T) {
	p := Planner{}
	open := []bool{true, true, true, true}
	failed := []bool{false, false, false, false}

	toOpen, toClose := p.SelectToggles(2, open, failed)
	if len(toOpen) != 0 {
		t.Errorf("expected no opens, got %v", toOpen)
	}
	if want := []int{3, 2}; !equalInts(toClose, want) {
		t.Errorf("toClose: got %v, want %v", toClose, want)
	}
}

func TestSelectTogglesOpenLowestFirst(t *testing.T) {
	p := Planner{}
	open := []bool{false, false, false, false}
	failed := []bool{false, false, false, false}

	toOpen, toClose := p.SelectToggles(2, open, failed)
	if len(toClose) != 0 {
		t.Errorf("expected no closes, got %v", toClose)
	}
	if want := []int{0, 1}; !equalInts(toOpen, want) {
		t.Errorf("toOpen: got %v, want %v", toOpen, want)
	}
}

func TestSelectTogglesSkipsFailedWhenClosing(t *testing.T) {
	p := Planner{}
	open := []bool{true, true, true, true}
	failed := []bool{false, false, false, true} // pump 3 failed, can't be closed

	toOpen, toClose := p.SelectToggles(2, open, failed)
	if len(toOpen) != 0 {
		t.Errorf("expected no opens, got %v", toOpen)
	}
	if want := []int{2, 1}; !equalInts(toClose, want) {
		t.Errorf("toClose should skip failed pump 3: got %v, want %v", toClose, want)
	}
}

func TestSelectTogglesSkipsFailedWhenOpening(t *testing.T) {
	p := Planner{}
	open := []bool{false, false, false, false}
	failed := []bool{false, true, false, false} // pump 1 failed, can't be opened

	toOpen, toClose := p.SelectToggles(2, open, failed)
	if len(toClose) != 0 {
		t.Errorf("expected no closes, got %v", toClose)
	}
	if want := []int{0, 2}; !equalInts(toOpen, want) {
		t.Errorf("toOpen should skip failed pump 1: got %v, want %v", toOpen, want)
	}
}

func TestSelectTogglesNoChangeNeeded(t *testing.T) {
	p := Planner{}
	open := []bool{true, true, false, false}
	failed := []bool{false, false, false, false}

	toOpen, toClose := p.SelectToggles(2, open, failed)
	if len(toOpen) != 0 || len(toClose) != 0 {
		t.Errorf("expected no toggles, got toOpen=%v toClose=%v", toOpen, toClose)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
