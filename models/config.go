package models

import (
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds the synthesis engine's tunables, loaded from a YAML
// file and layered over sane defaults. Unlike internal/config's
// compile-time constants, these are the knobs an operator is expected to
// adjust per deployment without a rebuild.
type EngineConfig struct {
	// CrossfadeMS is the triangular crossfade window applied between
	// adjacent assembled segments, in milliseconds.
	CrossfadeMS int `yaml:"crossfade_ms"`

	// CalibrationKCap is the hard ceiling on the number of leading
	// segments sampled during rate calibration, regardless of how large
	// 20% of the segment count works out to be. It only lowers K: values
	// above 15 leave models.CalibrationK's own cap of 15 in force.
	CalibrationKCap int `yaml:"calibration_k_cap"`

	// RateClampPct is a rate bound, in percentage points either side of
	// zero, loaded from YAML. The engine does not read it: the calibrator
	// always clamps the adaptive rate to [-100, 100] via models.ClampRate.
	RateClampPct float64 `yaml:"rate_clamp_pct"`

	// ConcurrentCalibration selects CollectSamples' bounded-concurrency
	// path. The engine's strategies do not call CollectSamples; they
	// synthesize calibration segments sequentially whatever this is set to.
	ConcurrentCalibration bool `yaml:"concurrent_calibration"`

	// CalibrationConcurrency caps how many calibration segments synthesize
	// in parallel when ConcurrentCalibration is true.
	CalibrationConcurrency int `yaml:"calibration_concurrency"`
}

// DefaultEngineConfig returns the engine's built-in tunables, matching the
// constants the engine would use if no YAML file were supplied.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		CrossfadeMS:            10,
		CalibrationKCap:        15,
		RateClampPct:           100,
		ConcurrentCalibration:  false,
		CalibrationConcurrency: 4,
	}
}

// LoadEngineConfig reads a YAML tunables file at path, overlaying its
// fields onto the defaults. A missing file is not an error: the defaults
// are returned as-is.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
