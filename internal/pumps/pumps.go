// Package pumps chooses how many pumps the controller should have open
// and which physical pump indices to toggle to get there, respecting
// failed pumps. It is stateless: the sticky wMinBand/wMaxBand state the
// fault oracle reads next tick lives on the controller, not here — see
// spec.md §9's note on that coupling.
package pumps

import (
	"math"

	"github.com/sweeney/boiler-controller/internal/config"
	"github.com/sweeney/boiler-controller/internal/physics"
)

// Planner chooses pump cardinality and the specific indices to toggle.
type Planner struct{}

// NoFeasibleCount is the sentinel ChooseCount returns when no k in [0,N]
// keeps both w_hi < W_max and w_lo > W_min; per spec.md §9(a), callers
// must resolve this to "close all" (0) rather than propagate -1.
const NoFeasibleCount = -1

func capacityOfFirstK(cfg config.Config, k int) float64 {
	var total float64
	for i := 0; i < k; i++ {
		total += cfg.PumpCapacity(i)
	}
	return total
}

// Bounds returns the predicted [lo, hi] band for opening the lowest k
// pumps, given current water w and steam s.
func (Planner) Bounds(w, s float64, k int, cfg config.Config) (lo, hi float64) {
	cap := capacityOfFirstK(cfg, k)
	hi = physics.WaterHi(w, s, cap, cfg.Period())
	lo = physics.WaterLo(w, cap, cfg.MaxSteamRate(), cfg.Period())
	return lo, hi
}

// ChooseCount implements spec.md §4.4's three-branch cardinality choice,
// returning the chosen k along with the predicted band [wLoBand, wHiBand]
// for that k, which the caller should record as wMinBand/wMaxBand for the
// next tick's fault oracle.
func (p Planner) ChooseCount(w, s float64, cfg config.Config) (k int, wLoBand, wHiBand float64) {
	n := cfg.NumPumps()

	if w >= cfg.MaxNormal() {
		lo, hi := p.Bounds(w, s, 0, cfg)
		return 0, lo, hi
	}
	if w < cfg.MinNormal() {
		lo, hi := p.Bounds(w, s, n, cfg)
		return n, lo, hi
	}

	optimal := (cfg.MinNormal() + cfg.MaxNormal()) / 2
	best := NoFeasibleCount
	bestScore := math.Inf(1)
	var bestLo, bestHi float64
	for k := 0; k <= n; k++ {
		lo, hi := p.Bounds(w, s, k, cfg)
		if !(hi < cfg.MaxNormal() && lo > cfg.MinNormal()) {
			continue
		}
		score := math.Abs((hi+lo)/2 - optimal)
		if score < bestScore {
			bestScore = score
			best = k
			bestLo, bestHi = lo, hi
		}
	}
	return best, bestLo, bestHi
}

// SelectToggles implements spec.md §4.4's pump-index policy: close
// highest-index-first when too many pumps are open, open lowest-index-
// first when too few are, always skipping failed pumps.
func (Planner) SelectToggles(k int, open, failed []bool) (toOpen, toClose []int) {
	n := len(open)
	current := 0
	for _, o := range open {
		if o {
			current++
		}
	}

	switch {
	case current > k:
		need := current - k
		for i := n - 1; i >= 0 && need > 0; i-- {
			if !open[i] || failed[i] {
				continue
			}
			toClose = append(toClose, i)
			need--
		}
	case current < k:
		need := k - current
		for i := 0; i < n && need > 0; i++ {
			if open[i] || failed[i] {
				continue
			}
			toOpen = append(toOpen, i)
			need--
		}
	}
	return toOpen, toClose
}
