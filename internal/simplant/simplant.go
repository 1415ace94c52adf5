// Package simplant is an in-process software model of the boiler plant,
// standing in for real sensors/actuators so the controller can run (and
// be exercised end-to-end) without hardware. It advances the same
// physics.WaterHi model the controller's planner reasons about, so a
// healthy run should track the controller's own predictions tick for
// tick. Grounded on the teacher's gpio.FakeReader's scripted-sample idiom,
// generalized from "replay a fixed sequence" to "step a physical model".
package simplant

import (
	"github.com/sweeney/boiler-controller/internal/config"
	"github.com/sweeney/boiler-controller/internal/mailbox"
	"github.com/sweeney/boiler-controller/internal/physics"
)

// Plant is a stateful software model of the boiler, its pumps, and its
// two sensors. It is not safe for concurrent use.
type Plant struct {
	cfg config.Config

	water float64
	steam float64

	pumpOpen  []bool // physical pump state
	ctrlOpen  []bool // what each pump's controller reports (usually == pumpOpen)
	valveOpen bool

	// StuckOpen/StuckClosed force pump i to ignore commands, modeling a
	// physically jammed pump independent of anything the controller's
	// fault detector has concluded.
	StuckOpen   []bool
	StuckClosed []bool

	// LieAboutPump, if set for index i, makes the controller's reported
	// state for pump i disagree with its actual physical state —
	// modeling a controller that misreports its own last action.
	LieAboutPump []bool

	// WaterSensorStuck/SteamSensorStuck freeze the corresponding reading
	// at its last reported value regardless of the true physical level.
	WaterSensorStuck bool
	SteamSensorStuck bool
	stuckWaterValue  float64
	stuckSteamValue  float64

	// readyConfirmed becomes true once the plant has seen a ProgramReady
	// message from the controller: physically, this is the moment the
	// units accept control and the boiler leaves its pre-operational
	// waiting state. Sense() flips from emitting SteamBoilerWaiting to
	// emitting PhysicalUnitsReady at that point.
	readyConfirmed bool
}

// NewPlant creates a plant at the given initial water level with all
// pumps closed, the valve closed, and no steam flowing. Matches spec.md
// §8 scenario 1's cold-start precondition: the boiler starts in WAITING.
func NewPlant(cfg config.Config, initialWater float64) *Plant {
	n := cfg.NumPumps()
	return &Plant{
		cfg:          cfg,
		water:        initialWater,
		pumpOpen:     make([]bool, n),
		ctrlOpen:     make([]bool, n),
		StuckOpen:    make([]bool, n),
		StuckClosed:  make([]bool, n),
		LieAboutPump: make([]bool, n),
	}
}

// SetSteamRate sets the steam rate a consuming process is currently
// drawing. The value is used as given; it is not clamped to [0, S_max].
func (p *Plant) SetSteamRate(s float64) {
	p.steam = s
}

// Water returns the true physical water level, bypassing any sensor
// fault injected via WaterSensorStuck.
func (p *Plant) Water() float64 { return p.water }

// ValveOpen reports the drain valve's current physical state.
func (p *Plant) ValveOpen() bool { return p.valveOpen }

// Sense returns the current tick's inbound mailbox: level, steam, and
// each pump/controller pair's reported state.
func (p *Plant) Sense() *mailbox.Buffer {
	in := mailbox.NewBuffer()

	waterReading := p.water
	if p.WaterSensorStuck {
		waterReading = p.stuckWaterValue
	} else {
		p.stuckWaterValue = p.water
	}
	steamReading := p.steam
	if p.SteamSensorStuck {
		steamReading = p.stuckSteamValue
	} else {
		p.stuckSteamValue = p.steam
	}

	in.Send(mailbox.Message{Kind: mailbox.LevelV, Double: waterReading})
	in.Send(mailbox.Message{Kind: mailbox.SteamV, Double: steamReading})

	for i, open := range p.pumpOpen {
		in.Send(mailbox.Message{Kind: mailbox.PumpStateNB, Int: i, Bool: open})
	}
	for i, open := range p.pumpOpen {
		reported := open
		if i < len(p.LieAboutPump) && p.LieAboutPump[i] {
			reported = !reported
		}
		in.Send(mailbox.Message{Kind: mailbox.PumpControlStateNB, Int: i, Bool: reported})
	}

	if p.readyConfirmed {
		in.Send(mailbox.Message{Kind: mailbox.PhysicalUnitsReady})
	} else {
		in.Send(mailbox.Message{Kind: mailbox.SteamBoilerWaiting})
	}

	return in
}

// Apply processes the controller's outbox — toggling pumps and the valve,
// honoring stuck-pump injection — then advances the water level by one
// period using the same model the controller's planner predicts with.
func (p *Plant) Apply(outgoing mailbox.Mailbox) {
	for i := 0; i < outgoing.Size(); i++ {
		m := outgoing.Read(i)
		switch m.Kind {
		case mailbox.OpenPumpN:
			p.setPump(m.Int, true)
		case mailbox.ClosePumpN:
			p.setPump(m.Int, false)
		case mailbox.Valve:
			p.valveOpen = !p.valveOpen
		case mailbox.ProgramReady:
			p.readyConfirmed = true
		}
	}

	openCap := config.TotalCapacity(p.cfg, openIndices(p.pumpOpen))
	p.water = physics.WaterHi(p.water, p.steam, openCap, p.cfg.Period())
	if p.valveOpen {
		p.water = 0
	}
	if p.water < 0 {
		p.water = 0
	}
	if p.water > p.cfg.Capacity() {
		p.water = p.cfg.Capacity()
	}
}

func (p *Plant) setPump(i int, open bool) {
	if open && i < len(p.StuckClosed) && p.StuckClosed[i] {
		return
	}
	if !open && i < len(p.StuckOpen) && p.StuckOpen[i] {
		return
	}
	p.pumpOpen[i] = open
}

func openIndices(open []bool) []int {
	var out []int
	for i, o := range open {
		if o {
			out = append(out, i)
		}
	}
	return out
}
