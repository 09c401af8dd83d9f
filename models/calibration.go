package models

import "strconv"

// CalibrationSample records one calibration-phase segment's target vs.
// observed synthesized duration, both in seconds.
type CalibrationSample struct {
	TargetS float64
	ActualS float64
}

// Ratio returns ActualS/TargetS, the per-sample speed ratio the calibrator
// averages over. A non-positive TargetS yields a ratio of 1 (neutral) since
// it carries no timing signal.
func (c CalibrationSample) Ratio() float64 {
	if c.TargetS <= 0 {
		return 1
	}
	return c.ActualS / c.TargetS
}

// AdaptiveRate is an integer synthesis-rate bias in [-100, 100], applied to
// the voice synthesizer for every non-calibration segment. The zero value is
// the correct default (+0%).
type AdaptiveRate int

// ClampRate clamps an arbitrary percentage into the synthesizer's supported
// [-100, 100] range (§3, §4.3 step 4).
func ClampRate(pct float64) AdaptiveRate {
	if pct > 100 {
		pct = 100
	}
	if pct < -100 {
		pct = -100
	}
	return AdaptiveRate(pct)
}

// String renders the rate in the synthesizer RPC's "+N%"/"-N%" form (§6).
func (r AdaptiveRate) String() string {
	if r >= 0 {
		return "+" + strconv.Itoa(int(r)) + "%"
	}
	return strconv.Itoa(int(r)) + "%"
}

// CalibrationK returns K = min(15, ceil(0.20*n)), the number of leading
// segments the calibrator samples (§3).
func CalibrationK(n int) int {
	if n <= 0 {
		return 0
	}
	k := (n + 4) / 5 // ceil(0.20*n) == ceil(n/5)
	if k > 15 {
		k = 15
	}
	return k
}
