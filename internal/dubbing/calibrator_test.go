package dubbing

import (
	"context"
	"testing"

	"dubsync/models"
	"pgregory.net/rapid"
)

func samplesFromRatios(ratios []float64) []models.CalibrationSample {
	out := make([]models.CalibrationSample, len(ratios))
	for i, r := range ratios {
		out[i] = models.CalibrationSample{TargetS: 1.0, ActualS: r}
	}
	return out
}

func TestComputeRate_LowVarianceAppliesRate(t *testing.T) {
	samples := samplesFromRatios([]float64{0.80, 0.82, 0.79, 0.81, 0.80})
	rate := ComputeRate(samples)
	if rate != -20 {
		t.Errorf("ComputeRate() = %v, want -20", rate)
	}
}

func TestComputeRate_HighVarianceDisablesAdjustment(t *testing.T) {
	samples := samplesFromRatios([]float64{0.3, 1.8, 0.4, 2.1, 0.5})
	rate := ComputeRate(samples)
	if rate != 0 {
		t.Errorf("ComputeRate() = %v, want +0", rate)
	}
}

func TestComputeRate_EmptyPopulation(t *testing.T) {
	if rate := ComputeRate(nil); rate != 0 {
		t.Errorf("ComputeRate(nil) = %v, want 0", rate)
	}
}

// TestComputeRate_AlwaysInRange is the property-based check of §8 item 5:
// the applied rate is always within [-100, +100].
func TestComputeRate_AlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 15).Draw(t, "n")
		ratios := make([]float64, n)
		for i := range ratios {
			ratios[i] = rapid.Float64Range(0.01, 5).Draw(t, "ratio")
		}
		rate := ComputeRate(samplesFromRatios(ratios))
		if rate < -100 || rate > 100 {
			t.Fatalf("ComputeRate() = %v, out of range", rate)
		}
	})
}

// TestComputeRate_HighVarianceAlwaysZero is the property-based check of §8
// item 4: sigma >= 0.3 implies rate == +0%.
func TestComputeRate_HighVarianceAlwaysZero(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// Force high variance by mixing a very small and very large ratio.
		n := rapid.IntRange(2, 15).Draw(t, "n")
		ratios := make([]float64, n)
		for i := range ratios {
			if i%2 == 0 {
				ratios[i] = rapid.Float64Range(0.01, 0.2).Draw(t, "lowRatio")
			} else {
				ratios[i] = rapid.Float64Range(3, 5).Draw(t, "highRatio")
			}
		}
		rate := ComputeRate(samplesFromRatios(ratios))
		if rate != 0 {
			t.Fatalf("ComputeRate() = %v, want 0 for high-variance population", rate)
		}
	})
}

func TestCollectSamples_Sequential(t *testing.T) {
	var calls []int
	sample := func(ctx context.Context, i int) (models.CalibrationSample, error) {
		calls = append(calls, i)
		return models.CalibrationSample{TargetS: 1, ActualS: 1}, nil
	}

	got, err := CollectSamples(context.Background(), 3, nil, sample)
	if err != nil {
		t.Fatalf("CollectSamples() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	for i, c := range calls {
		if c != i {
			t.Errorf("calls[%d] = %d, want %d (sequential order)", i, c, i)
		}
	}
}

func TestCollectSamples_ConcurrentReturnsInIndexOrder(t *testing.T) {
	cfg := &models.EngineConfig{ConcurrentCalibration: true, CalibrationConcurrency: 4}
	sample := func(ctx context.Context, i int) (models.CalibrationSample, error) {
		return models.CalibrationSample{TargetS: 1, ActualS: float64(i)}, nil
	}

	got, err := CollectSamples(context.Background(), 5, cfg, sample)
	if err != nil {
		t.Fatalf("CollectSamples() error = %v", err)
	}
	for i, s := range got {
		if s.ActualS != float64(i) {
			t.Errorf("got[%d].ActualS = %v, want %v", i, s.ActualS, i)
		}
	}
}

func TestCollectSamples_ZeroK(t *testing.T) {
	got, err := CollectSamples(context.Background(), 0, nil, nil)
	if err != nil {
		t.Fatalf("CollectSamples() error = %v", err)
	}
	if got != nil {
		t.Errorf("got = %v, want nil", got)
	}
}
