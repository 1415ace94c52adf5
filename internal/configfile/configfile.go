// Package configfile loads boiler characteristics from a YAML file into a
// config.StaticConfig. This is the concrete form of the "boiler
// characteristics configuration source" that the controller itself treats
// as an external collaborator — only Config's interface matters to it.
package configfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/boiler-controller/internal/config"
)

// document is the on-disk YAML shape.
type document struct {
	Pumps        []float64 `yaml:"pumps"`
	Capacity     float64   `yaml:"capacity"`
	MinNormal    float64   `yaml:"min_normal"`
	MaxNormal    float64   `yaml:"max_normal"`
	MinLimit     float64   `yaml:"min_limit"`
	MaxLimit     float64   `yaml:"max_limit"`
	MaxSteamRate float64   `yaml:"max_steam_rate"`
	PeriodSecs   float64   `yaml:"period_secs"`
}

// Load reads and validates a boiler-characteristics YAML file.
func Load(path string) (config.StaticConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return config.StaticConfig{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return config.StaticConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := config.StaticConfig{
		Pumps:      doc.Pumps,
		Cap:        doc.Capacity,
		WMin:       doc.MinNormal,
		WMax:       doc.MaxNormal,
		WSafeLo:    doc.MinLimit,
		WSafeHi:    doc.MaxLimit,
		SteamMax:   doc.MaxSteamRate,
		PeriodSecs: doc.PeriodSecs,
	}
	if err := validate(cfg); err != nil {
		return config.StaticConfig{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg config.StaticConfig) error {
	if cfg.NumPumps() < 1 {
		return fmt.Errorf("need at least one pump")
	}
	if cfg.WSafeLo >= cfg.WMin || cfg.WMin >= cfg.WMax || cfg.WMax >= cfg.WSafeHi {
		return fmt.Errorf("bands must satisfy W_safe_lo < W_min < W_max < W_safe_hi, got %v < %v < %v < %v",
			cfg.WSafeLo, cfg.WMin, cfg.WMax, cfg.WSafeHi)
	}
	if cfg.Cap <= 0 {
		return fmt.Errorf("capacity must be positive, got %v", cfg.Cap)
	}
	if cfg.SteamMax <= 0 {
		return fmt.Errorf("max_steam_rate must be positive, got %v", cfg.SteamMax)
	}
	return nil
}
