package dubbing

import (
	"context"
	"math"

	"dubsync/internal/logger"
	"dubsync/internal/worker"
	"dubsync/models"
	"gonum.org/v1/gonum/stat"
)

// varianceGate is the per-sample ratio standard deviation above which the
// calibrator distrusts the population and disables rate adjustment (§4.3
// step 3).
const varianceGate = 0.3

// KFor returns the calibration population size for n segments:
// models.CalibrationK(n), lowered to the operator-configured ceiling in cfg
// when one is set and smaller. A configured ceiling never raises K above
// CalibrationK's built-in cap of 15.
func KFor(n int, cfg *models.EngineConfig) int {
	k := models.CalibrationK(n)
	if cfg != nil && cfg.CalibrationKCap > 0 && cfg.CalibrationKCap < k {
		k = cfg.CalibrationKCap
	}
	return k
}

// ComputeRate derives the single global rate offset from a population of
// calibration samples: the mean actual/target ratio, clamped and rounded to
// a percentage, or +0% if the population's ratios are too noisy to steer.
func ComputeRate(samples []models.CalibrationSample) models.AdaptiveRate {
	if len(samples) == 0 {
		return 0
	}

	ratios := make([]float64, len(samples))
	targets := make([]float64, len(samples))
	actuals := make([]float64, len(samples))
	for i, s := range samples {
		ratios[i] = s.Ratio()
		targets[i] = s.TargetS
		actuals[i] = s.ActualS
	}

	meanTarget := stat.Mean(targets, nil)
	meanActual := stat.Mean(actuals, nil)
	if meanTarget <= 0 {
		return 0
	}
	ratio := meanActual / meanTarget

	sigma := stat.StdDev(ratios, nil)
	if sigma >= varianceGate {
		logger.Warn("calibrator: ratio variance too high, disabling rate adjustment", "sigma", sigma)
		return 0
	}

	return models.ClampRate(math.Round((ratio - 1) * 100))
}

// SampleFunc synthesizes and measures calibration segment index, returning
// its target/actual duration pair.
type SampleFunc func(ctx context.Context, index int) (models.CalibrationSample, error)

// CollectSamples runs the first k calibration segments through sample and
// returns their CalibrationSamples in original index order. Samples are
// drawn by index, not by wall-clock completion: when concurrency is
// enabled, results are still reassembled in submission order before being
// handed to ComputeRate, so a faster-finishing later segment never displaces
// an earlier one in the population the calibrator reasons about.
func CollectSamples(ctx context.Context, k int, cfg *models.EngineConfig, sample SampleFunc) ([]models.CalibrationSample, error) {
	if k <= 0 {
		return nil, nil
	}

	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}

	if cfg == nil || !cfg.ConcurrentCalibration {
		out := make([]models.CalibrationSample, k)
		for i := 0; i < k; i++ {
			s, err := sample(ctx, i)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}

	workers := cfg.CalibrationConcurrency
	if workers <= 0 {
		workers = 1
	}
	return worker.Process(indices, workers, func(job worker.Job[int]) (models.CalibrationSample, error) {
		return sample(ctx, job.Data)
	}, nil)
}
