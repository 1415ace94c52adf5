// Package controller owns the operating-mode state machine and the
// per-tick cycle driver: the decision core of the steam boiler controller.
// It talks to the plant only through mailbox.Mailbox and never logs or
// returns an error — faults are represented as flags and outgoing
// messages, per spec.md §7.
package controller

import (
	"github.com/google/uuid"

	"github.com/sweeney/boiler-controller/internal/config"
	"github.com/sweeney/boiler-controller/internal/faults"
	"github.com/sweeney/boiler-controller/internal/mailbox"
	"github.com/sweeney/boiler-controller/internal/physics"
	"github.com/sweeney/boiler-controller/internal/pumps"
)

// Controller is the per-process decision engine. All state lives here or
// in the embedded fault detector; there is no concurrent access (spec.md
// §5), so no locking is needed — status.Tracker is what guards a
// cross-goroutine view of a TickResult snapshot.
type Controller struct {
	cfg       config.Config
	sessionID uuid.UUID
	planner   pumps.Planner
	detector  *faults.Detector

	mode      Mode
	emptying  bool
	heaterOn  bool
	lastWater float64
	lastSteam float64

	pumpCommanded []bool

	// wMinBand/wMaxBand are written by the pump planner each tick and read
	// by the fault oracle on the *following* tick — the one intra-tick
	// feedback loop in the system (spec.md §9).
	wMinBand float64
	wMaxBand float64
}

// NewController constructs a controller in mode WAITING. sessionID tags
// every published event for this run; it has no bearing on the decision
// logic.
func NewController(cfg config.Config, sessionID uuid.UUID) *Controller {
	n := cfg.NumPumps()
	return &Controller{
		cfg:           cfg,
		sessionID:     sessionID,
		detector:      faults.NewDetector(n),
		pumpCommanded: make([]bool, n),
		mode:          Waiting,
		wMinBand:      cfg.MinNormal(),
		wMaxBand:      cfg.MaxNormal(),
	}
}

// Status returns the current mode name. Debug display only, per spec.md
// §6 — no other code should branch on its value.
func (c *Controller) Status() string {
	return c.mode.String()
}

// Mode returns the current operating mode.
func (c *Controller) Mode() Mode { return c.mode }

// TickResult is a point-in-time, lock-free snapshot of controller state
// for observers (MQTT publisher, status tracker) that must not reach into
// the controller's private fields. Grounded on status.Tracker.Update's
// snapshot pattern in the teacher.
type TickResult struct {
	SessionID         uuid.UUID
	Mode              Mode
	Emptying          bool
	HeaterOn          bool
	LastWater         float64
	LastSteam         float64
	PumpFailed        []bool
	CtrlFailed        []bool
	WaterSensorFailed bool
	SteamSensorFailed bool
	PumpCommanded     []bool
}

// LastTick returns a snapshot of the controller's state as of the most
// recently completed Tick.
func (c *Controller) LastTick() TickResult {
	return TickResult{
		SessionID:         c.sessionID,
		Mode:              c.mode,
		Emptying:          c.emptying,
		HeaterOn:          c.heaterOn,
		LastWater:         c.lastWater,
		LastSteam:         c.lastSteam,
		PumpFailed:        append([]bool(nil), c.detector.PumpFailed...),
		CtrlFailed:        append([]bool(nil), c.detector.CtrlFailed...),
		WaterSensorFailed: c.detector.WaterSensorFailed,
		SteamSensorFailed: c.detector.SteamSensorFailed,
		PumpCommanded:     append([]bool(nil), c.pumpCommanded...),
	}
}

// Tick runs one cycle: parse inbox, check transmission health, handle
// repairs, dispatch by mode, emit to outgoing. Pure with respect to
// incoming; appends only to outgoing.
func (c *Controller) Tick(incoming mailbox.Mailbox, outgoing mailbox.Sender) {
	n := c.cfg.NumPumps()

	level, levelOK := mailbox.OnlyMatch(incoming, mailbox.LevelV)
	steam, steamOK := mailbox.OnlyMatch(incoming, mailbox.SteamV)
	pumpStates := mailbox.AllMatches(incoming, mailbox.PumpStateNB)
	ctrlStates := mailbox.AllMatches(incoming, mailbox.PumpControlStateNB)

	if transmissionFailure(levelOK, steamOK, pumpStates, ctrlStates, n) {
		c.mode = EmergencyStop
		c.emergencyStopAction(outgoing)
		return
	}

	if c.mode != EmergencyStop {
		if repair, ok := c.detector.DetectRepair(incoming); ok {
			outgoing.Send(repair.Ack)
			c.mode = Normal
			c.heaterOn = true
		}
	}

	openPumps := make([]bool, n)
	ctrlOpen := make([]bool, n)
	for _, m := range pumpStates {
		openPumps[m.Int] = m.Bool
	}
	for _, m := range ctrlStates {
		ctrlOpen[m.Int] = m.Bool
	}

	switch c.mode {
	case Waiting:
		c.runWaiting(incoming, level.Double, steam.Double, openPumps, outgoing)
	case Ready:
		c.runReady(incoming, outgoing)
	case Normal, Degraded, Rescue:
		c.runOperational(level.Double, steam.Double, openPumps, ctrlOpen, outgoing)
	case EmergencyStop:
		c.emergencyStopAction(outgoing)
	}

	if c.mode != EmergencyStop {
		if !c.detector.WaterSensorFailed {
			c.lastWater = level.Double
		}
		if !c.detector.SteamSensorFailed {
			c.lastSteam = steam.Double
		}
	}
}

func transmissionFailure(levelOK, steamOK bool, pumpStates, ctrlStates []mailbox.Message, n int) bool {
	return !levelOK || !steamOK || len(pumpStates) != n || len(ctrlStates) != n
}

// runWaiting implements spec.md §4.5's WAITING row and per-mode action.
func (c *Controller) runWaiting(incoming mailbox.Mailbox, w, s float64, openPumps []bool, outgoing mailbox.Sender) {
	outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeInitialisation})

	if _, present := mailbox.OnlyMatch(incoming, mailbox.SteamBoilerWaiting); present {
		steamFault := c.detector.CheckSteamSensor(s, c.lastSteam, c.cfg.MaxSteamRate())
		if s != 0 || steamFault || c.detector.WaterSensorFailed {
			c.mode = EmergencyStop
			c.emergencyStopAction(outgoing)
			return
		}
		c.runInitStep(w, openPumps, outgoing)
	}
}

func (c *Controller) runInitStep(w float64, openPumps []bool, outgoing mailbox.Sender) {
	switch {
	case w < c.cfg.MinNormal():
		k, lo, hi := c.planner.ChooseCount(w, 0, c.cfg)
		if k == pumps.NoFeasibleCount {
			k = 0
			lo, hi = c.planner.Bounds(w, 0, k, c.cfg)
		}
		toOpen, toClose := c.planner.SelectToggles(k, openPumps, c.detector.PumpFailed)
		c.applyToggles(outgoing, toOpen, toClose)
		c.wMinBand, c.wMaxBand = lo, hi
	case w > c.cfg.MaxNormal():
		if !c.emptying {
			c.sendValve(outgoing)
		}
	}

	if w >= c.cfg.MinNormal() && w <= c.cfg.MaxNormal() {
		c.mode = Ready
	}
}

// runReady implements spec.md §4.5's READY row and per-mode action.
func (c *Controller) runReady(incoming mailbox.Mailbox, outgoing mailbox.Sender) {
	outgoing.Send(mailbox.Message{Kind: mailbox.ProgramReady})
	if _, ok := mailbox.OnlyMatch(incoming, mailbox.PhysicalUnitsReady); ok {
		outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeNormal})
		c.heaterOn = true
		c.mode = Normal
	}
}

// runOperational implements spec.md §4.5's NORMAL/DEGRADED/RESCUE rows:
// fault classification, the imminent-failure guard, and the mode-specific
// pump-planning action. Shared across all three modes because the
// classification and imminent-failure checks run identically in each.
func (c *Controller) runOperational(w, s float64, openPumps, ctrlOpen []bool, outgoing mailbox.Sender) {
	within := faults.WithinBand(w, c.wMinBand, c.wMaxBand)

	idx, kind, pumpFaultFound := c.detector.ClassifyPumps(openPumps, ctrlOpen, c.pumpCommanded, within)
	if pumpFaultFound {
		if kind == faults.FaultController {
			outgoing.Send(mailbox.Message{Kind: mailbox.PumpControlFailureDetectionN, Int: idx})
		} else {
			outgoing.Send(mailbox.Message{Kind: mailbox.PumpFailureDetectionN, Int: idx})
		}
	}

	steamFaultBefore := c.detector.SteamSensorFailed
	if c.detector.CheckSteamSensor(s, c.lastSteam, c.cfg.MaxSteamRate()) && !steamFaultBefore {
		outgoing.Send(mailbox.Message{Kind: mailbox.SteamFailureDetection})
	}

	waterFaultBefore := c.detector.WaterSensorFailed
	if c.detector.CheckWaterSensor(w, c.cfg.Capacity(), within, c.heaterOn, pumpFaultFound) && !waterFaultBefore {
		outgoing.Send(mailbox.Message{Kind: mailbox.LevelFailureDetection})
	}

	// Derive the mode fresh from the resulting flag set rather than
	// mirroring whichever edge fired above: a repair may have just forced
	// NORMAL this tick, but any fault still outstanding — or one found
	// just now — must reassert DEGRADED/RESCUE before the tick ends.
	// Spec.md §4.3: "subsequent fault checks in the same tick may
	// reclassify back to a degraded mode." This also generalizes the
	// NORMAL→RESCUE edge to any originating mode, since a failed water
	// sensor must put the controller in RESCUE regardless of what mode it
	// was in the instant the sensor failed (design note §9: recompute
	// mode from the primitive flags at transition points).
	c.mode = c.modeFromFaults()

	effectiveWater := w
	if c.detector.WaterSensorFailed {
		effectiveWater = c.lastWater
	}
	if faults.ImminentFailure(c.detector.WaterSensorFailed, c.detector.SteamSensorFailed, effectiveWater, c.cfg.MinLimit(), c.cfg.MaxLimit(), c.heaterOn, false) {
		c.mode = EmergencyStop
		c.emergencyStopAction(outgoing)
		return
	}

	switch c.mode {
	case Normal:
		outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeNormal})
		c.planAndToggle(w, s, openPumps, outgoing)
	case Degraded:
		outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeDegraded})
		sForPlan := s
		if c.detector.SteamSensorFailed {
			openCap := config.TotalCapacity(c.cfg, indicesWhereTrue(openPumps))
			sForPlan = physics.EstimateSteam(c.lastWater, openCap, w, c.cfg.MaxSteamRate())
		}
		c.planAndToggle(w, sForPlan, openPumps, outgoing)
	case Rescue:
		outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeRescue})
		c.planAndToggle(c.lastWater, s, openPumps, outgoing)
		openCap := config.TotalCapacity(c.cfg, indicesWhereTrue(c.pumpCommanded))
		c.lastWater = physics.EstimateWater(c.lastWater, s, openCap, c.cfg.Period())
	}
}

// modeFromFaults derives NORMAL/DEGRADED/RESCUE from the detector's sticky
// flags. Water sensor failure takes priority (it governs which water
// estimate planning trusts); any other outstanding fault means DEGRADED;
// no fault means NORMAL.
func (c *Controller) modeFromFaults() Mode {
	if c.detector.WaterSensorFailed {
		return Rescue
	}
	if c.detector.SteamSensorFailed || c.detector.AnyPumpFault() {
		return Degraded
	}
	return Normal
}

func (c *Controller) planAndToggle(w, s float64, openPumps []bool, outgoing mailbox.Sender) {
	k, lo, hi := c.planner.ChooseCount(w, s, c.cfg)
	if k == pumps.NoFeasibleCount {
		k = 0
		lo, hi = c.planner.Bounds(w, s, k, c.cfg)
	}
	toOpen, toClose := c.planner.SelectToggles(k, openPumps, c.detector.PumpFailed)
	c.applyToggles(outgoing, toOpen, toClose)
	c.wMinBand, c.wMaxBand = lo, hi
}

func (c *Controller) applyToggles(outgoing mailbox.Sender, toOpen, toClose []int) {
	for _, i := range toClose {
		outgoing.Send(mailbox.Message{Kind: mailbox.ClosePumpN, Int: i})
		c.pumpCommanded[i] = false
	}
	for _, i := range toOpen {
		outgoing.Send(mailbox.Message{Kind: mailbox.OpenPumpN, Int: i})
		c.pumpCommanded[i] = true
	}
}

func (c *Controller) sendValve(outgoing mailbox.Sender) {
	outgoing.Send(mailbox.Message{Kind: mailbox.Valve})
	c.emptying = !c.emptying
}

// emergencyStopAction implements spec.md §4.5's EMERGENCY_STOP action and
// invariant 1: close all pumps, emit MODE=EMERGENCY_STOP three times
// (design note §9(c): defends against a dropped message), open the valve
// if not already emptying, clear heaterOn.
func (c *Controller) emergencyStopAction(outgoing mailbox.Sender) {
	for i := 0; i < c.cfg.NumPumps(); i++ {
		if c.pumpCommanded[i] {
			outgoing.Send(mailbox.Message{Kind: mailbox.ClosePumpN, Int: i})
			c.pumpCommanded[i] = false
		}
	}
	for i := 0; i < 3; i++ {
		outgoing.Send(mailbox.Message{Kind: mailbox.ModeM, Mode: mailbox.ModeEmergencyStop})
	}
	if !c.emptying {
		outgoing.Send(mailbox.Message{Kind: mailbox.Valve})
		c.emptying = true
	}
	c.heaterOn = false
}

func indicesWhereTrue(bs []bool) []int {
	var out []int
	for i, b := range bs {
		if b {
			out = append(out, i)
		}
	}
	return out
}
