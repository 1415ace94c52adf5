//go:build linux

package relay

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDriver drives relays on actual hardware using the Linux GPIO
// character device.
type RealDriver struct {
	chip      *gpiocdev.Chip
	pumpLines []*gpiocdev.Line
	valveLine *gpiocdev.Line
}

// NewRealDriver opens gpiochip0 and requests one output line per pump plus
// the valve line, all initially de-energized.
func NewRealDriver(numPumps int) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	d := &RealDriver{chip: chip, pumpLines: make([]*gpiocdev.Line, numPumps)}
	for i := 0; i < numPumps; i++ {
		line, err := chip.RequestLine(BasePin+i, gpiocdev.AsOutput(0))
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("request pump %d pin %d: %w", i, BasePin+i, err)
		}
		d.pumpLines[i] = line
	}

	valveLine, err := chip.RequestLine(PinValve, gpiocdev.AsOutput(0))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request valve pin %d: %w", PinValve, err)
	}
	d.valveLine = valveLine

	return d, nil
}

// SetPump drives pump i's relay line high (open) or low (closed).
func (d *RealDriver) SetPump(i int, open bool) error {
	if err := d.pumpLines[i].SetValue(boolToValue(open)); err != nil {
		return fmt.Errorf("set pump %d: %w", i, err)
	}
	return nil
}

// SetValve drives the drain valve relay line.
func (d *RealDriver) SetValve(open bool) error {
	if err := d.valveLine.SetValue(boolToValue(open)); err != nil {
		return fmt.Errorf("set valve: %w", err)
	}
	return nil
}

// Close de-energizes every relay and releases GPIO resources.
func (d *RealDriver) Close() error {
	var errs []error
	for i, line := range d.pumpLines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("de-energize pump %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pump %d: %w", i, err))
		}
	}
	if d.valveLine != nil {
		if err := d.valveLine.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("de-energize valve: %w", err))
		}
		if err := d.valveLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close valve: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
