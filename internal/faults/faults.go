// Package faults classifies pump/controller/sensor disagreements with the
// physics model and handles repair acknowledgements. It keeps the
// per-pump and per-sensor fault flags as the source of truth; callers
// (package controller) derive the operating mode from these flags rather
// than the other way around.
package faults

import (
	"github.com/sweeney/boiler-controller/internal/mailbox"
)

// withinMarginLo and withinMarginHi are the 0.8/1.2 margins spec.md §4.3
// applies to the predicted band before testing whether a reading falls
// "within limits". They absorb model error across a 5-second tick.
const (
	withinMarginLo = 0.8
	withinMarginHi = 1.2
)

// FaultKind names which component a classification blames.
type FaultKind int

const (
	// FaultNone means the pump and its controller agree with the command.
	FaultNone FaultKind = iota
	// FaultController means the controller misreported its own action.
	FaultController
	// FaultPump means the pump itself failed to act as commanded.
	FaultPump
)

// Detector holds the sticky fault state: which pumps/controllers are
// currently believed broken, and whether either sensor has failed.
type Detector struct {
	PumpFailed        []bool
	CtrlFailed        []bool
	WaterSensorFailed bool
	SteamSensorFailed bool
}

// NewDetector creates a Detector for a boiler with n pumps, all healthy.
func NewDetector(n int) *Detector {
	return &Detector{
		PumpFailed: make([]bool, n),
		CtrlFailed: make([]bool, n),
	}
}

// WithinBand reports whether w falls inside the predicted band
// [wMinBand*0.8, wMaxBand*1.2].
func WithinBand(w, wMinBand, wMaxBand float64) bool {
	return w >= wMinBand*withinMarginLo && w <= wMaxBand*withinMarginHi
}

// classifyOne implements the single-pump classification table from
// spec.md §4.3.
func classifyOne(reported, ctrlReported, commanded, within bool) FaultKind {
	pumpAgrees := reported == commanded
	ctrlAgrees := ctrlReported == commanded

	switch {
	case pumpAgrees && ctrlAgrees:
		return FaultNone
	case pumpAgrees && !ctrlAgrees:
		if within {
			return FaultController
		}
		return FaultPump
	default: // !pumpAgrees, regardless of ctrlAgrees
		return FaultPump
	}
}

// ClassifyPumps scans every pump in index order and acts on the first
// fault found: sets the corresponding sticky flag and returns its index
// and kind. Returns ok=false if every pump agrees with its command.
func (d *Detector) ClassifyPumps(reported, ctrlReported, commanded []bool, within bool) (index int, kind FaultKind, ok bool) {
	for i := range reported {
		if d.PumpFailed[i] || d.CtrlFailed[i] {
			// Already flagged; don't re-detect (and re-message) the same
			// fault every tick.
			continue
		}
		k := classifyOne(reported[i], ctrlReported[i], commanded[i], within)
		if k == FaultNone {
			continue
		}
		switch k {
		case FaultController:
			d.CtrlFailed[i] = true
		case FaultPump:
			d.PumpFailed[i] = true
		}
		return i, k, true
	}
	return 0, FaultNone, false
}

// CheckSteamSensor implements spec.md §4.3's steam sensor failure test: a
// negative reading, a reading above S_max, or a strict decrease from the
// last trusted reading (physically impossible within one tick).
func (d *Detector) CheckSteamSensor(s, lastSteam, maxSteam float64) bool {
	if s < 0 || s > maxSteam || s < lastSteam {
		d.SteamSensorFailed = true
	}
	return d.SteamSensorFailed
}

// CheckWaterSensor implements spec.md §4.3's water sensor failure test: an
// out-of-physical-range reading, or a reading outside the predicted band
// while the boiler is actively heating and no pump/controller fault
// already explains the discrepancy.
func (d *Detector) CheckWaterSensor(w, capacity float64, within, heaterOn, pumpFaultAlreadyExplains bool) bool {
	if w < 0 || w > capacity {
		d.WaterSensorFailed = true
		return true
	}
	if !within && heaterOn && !pumpFaultAlreadyExplains {
		d.WaterSensorFailed = true
	}
	return d.WaterSensorFailed
}

// ImminentFailure implements spec.md §4.3's emergency-stop guard: both
// sensors lost, the effective water level rising above the safety ceiling
// outside WAITING, or falling below the safety floor while heating.
func ImminentFailure(waterSensorFailed, steamSensorFailed bool, effectiveWater, safeLo, safeHi float64, heaterOn, isWaiting bool) bool {
	if waterSensorFailed && steamSensorFailed {
		return true
	}
	if effectiveWater > safeHi && !isWaiting {
		return true
	}
	if effectiveWater < safeLo && heaterOn {
		return true
	}
	return false
}

// RepairKind names which repair acknowledgement was issued.
type RepairKind int

const (
	RepairNone RepairKind = iota
	RepairPump
	RepairController
	RepairSteam
	RepairLevel
)

// Repair describes a single detected-and-acknowledged repair.
type Repair struct {
	Kind  RepairKind
	Index int // meaningful for RepairPump/RepairController
	Ack   mailbox.Message
}

// DetectRepair handles the first matching repair message in priority
// order (pump, controller, steam, level) per spec.md §4.3, clearing the
// corresponding flag and returning the acknowledgement to send.
func (d *Detector) DetectRepair(in mailbox.Mailbox) (Repair, bool) {
	if msgs := mailbox.AllMatches(in, mailbox.PumpRepairedN); len(msgs) > 0 {
		i := msgs[0].Int
		d.PumpFailed[i] = false
		return Repair{Kind: RepairPump, Index: i, Ack: mailbox.Message{Kind: mailbox.PumpRepairedAckN, Int: i}}, true
	}
	if msgs := mailbox.AllMatches(in, mailbox.PumpControlRepairedN); len(msgs) > 0 {
		i := msgs[0].Int
		d.CtrlFailed[i] = false
		return Repair{Kind: RepairController, Index: i, Ack: mailbox.Message{Kind: mailbox.PumpControlRepairedAckN, Int: i}}, true
	}
	if _, ok := mailbox.OnlyMatch(in, mailbox.SteamRepaired); ok {
		d.SteamSensorFailed = false
		return Repair{Kind: RepairSteam, Ack: mailbox.Message{Kind: mailbox.SteamRepairedAck}}, true
	}
	if _, ok := mailbox.OnlyMatch(in, mailbox.LevelRepaired); ok {
		d.WaterSensorFailed = false
		return Repair{Kind: RepairLevel, Ack: mailbox.Message{Kind: mailbox.LevelRepairedAck}}, true
	}
	return Repair{}, false
}

// AnyPumpFault reports whether any pump or controller fault is currently
// flagged.
func (d *Detector) AnyPumpFault() bool {
	for i := range d.PumpFailed {
		if d.PumpFailed[i] || d.CtrlFailed[i] {
			return true
		}
	}
	return false
}
