// Package config defines the immutable boiler characteristics consumed by
// every other package. The controller never mutates a Config after
// construction.
package config

// Config is the read-only set of boiler characteristics the controller is
// built around: pump count and throughput, tank capacity, the normal
// operating band, the safety band, and the maximum steam rate.
type Config interface {
	// NumPumps returns N, the number of feed pumps, >= 1.
	NumPumps() int
	// PumpCapacity returns C[i], the throughput of pump i in volume units
	// per second.
	PumpCapacity(i int) float64
	// Capacity returns W_cap, the tank's total capacity.
	Capacity() float64
	// MinNormal returns W_min, the lower bound of the normal band.
	MinNormal() float64
	// MaxNormal returns W_max, the upper bound of the normal band.
	MaxNormal() float64
	// MinLimit returns W_safe_lo, the lower bound of the safety band.
	MinLimit() float64
	// MaxLimit returns W_safe_hi, the upper bound of the safety band.
	MaxLimit() float64
	// MaxSteamRate returns S_max.
	MaxSteamRate() float64
	// Period returns T, the cycle period in seconds.
	Period() float64
}

// StaticConfig is the immutable implementation of Config built once at
// startup, either programmatically or via configfile.Load.
type StaticConfig struct {
	Pumps        []float64
	Cap          float64
	WMin         float64
	WMax         float64
	WSafeLo      float64
	WSafeHi      float64
	SteamMax     float64
	PeriodSecs   float64
}

// NumPumps returns N.
func (c StaticConfig) NumPumps() int { return len(c.Pumps) }

// PumpCapacity returns C[i].
func (c StaticConfig) PumpCapacity(i int) float64 { return c.Pumps[i] }

// Capacity returns W_cap.
func (c StaticConfig) Capacity() float64 { return c.Cap }

// MinNormal returns W_min.
func (c StaticConfig) MinNormal() float64 { return c.WMin }

// MaxNormal returns W_max.
func (c StaticConfig) MaxNormal() float64 { return c.WMax }

// MinLimit returns W_safe_lo.
func (c StaticConfig) MinLimit() float64 { return c.WSafeLo }

// MaxLimit returns W_safe_hi.
func (c StaticConfig) MaxLimit() float64 { return c.WSafeHi }

// MaxSteamRate returns S_max.
func (c StaticConfig) MaxSteamRate() float64 { return c.SteamMax }

// Period returns T. Defaults to 5 seconds if unset.
func (c StaticConfig) Period() float64 {
	if c.PeriodSecs == 0 {
		return 5
	}
	return c.PeriodSecs
}

// TotalCapacity sums C[i] over the given pump indices.
func TotalCapacity(cfg Config, pumps []int) float64 {
	var total float64
	for _, i := range pumps {
		total += cfg.PumpCapacity(i)
	}
	return total
}
