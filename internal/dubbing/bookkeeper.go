package dubbing

import (
	"math"

	"dubsync/internal/audio"
	"dubsync/internal/logger"
	"dubsync/models"
)

// durationConservationToleranceS is the threshold within which the sum of
// leading, segment, and trailing durations must match the original audio
// duration (§4.5).
const durationConservationToleranceS = 0.02

// TrailingSilence computes and, if large enough, returns the artifact for
// the gap between the last segment's end and the original audio duration.
// It returns nil when the gap does not clear the 20ms threshold (§4.5, §8
// boundary: "D_orig - last.end < 0 (recognizer overruns): emit no trailing
// silence").
func TrailingSilence(job *models.Job, lastEndS, origDurationS float64) *models.AudioArtifact {
	final := origDurationS - lastEndS
	if final <= silenceGapThresholdS {
		return nil
	}
	return job.NewArtifact(audio.Silence(final))
}

// CheckConservation logs a warning if the sum of target durations queued so
// far (leading silences, segment targets, and the trailing silence) departs
// from the original duration by more than the conservation tolerance. This
// is pre-stretch accounting: it reasons about target durations, not the
// post-stretch actual output, which the assembler measures separately.
func CheckConservation(totalQueuedS, origDurationS float64) {
	if diff := math.Abs(totalQueuedS - origDurationS); diff > durationConservationToleranceS {
		logger.Warn("bookkeeper: queued duration departs from original duration",
			"queued_s", totalQueuedS, "orig_s", origDurationS, "diff_s", diff)
	}
}
