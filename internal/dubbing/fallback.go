package dubbing

import (
	"context"
	"errors"

	"dubsync/internal/logger"
	"dubsync/models"
)

// Run drives the fallback ladder (§4.8): strategy (1) when every recognizer
// segment has valid timestamps, degrading to (2) and then (3) on any
// degradable failure. The whole job either succeeds under one strategy or
// fails outright — there is no partial-dub recovery.
func Run(ctx context.Context, job *models.Job, cfg *models.EngineConfig, collab Collaborators) (string, models.JobSummary, error) {
	if models.ValidateRecognizerSegments(job.Segments) == nil && len(job.Segments) > 0 {
		path, summary, err := RunTimestampStrategy(ctx, job, cfg, collab)
		if err == nil {
			return path, summary, nil
		}
		if !degradable(err) {
			return "", models.JobSummary{}, err
		}
		logger.Warn("engine: timestamp strategy failed, degrading to proportional", "error", err)
	} else {
		logger.Warn("engine: recognizer segments invalid or absent, skipping timestamp strategy")
	}

	path, summary, err := RunProportionalStrategy(ctx, job, cfg, collab)
	if err == nil {
		return path, summary, nil
	}
	if !degradable(err) {
		return "", models.JobSummary{}, err
	}
	logger.Warn("engine: proportional strategy failed, degrading to single-shot", "error", err)

	return RunSingleShotStrategy(ctx, job, collab)
}

// degradable reports whether err should trigger a drop to the next lower
// strategy rather than failing the job outright. Cancellation and
// audio-tool failures are non-retryable by design (§7); only a bad
// recognizer precondition or a synthesizer failure degrades.
func degradable(err error) bool {
	if errors.Is(err, models.ErrCancelled) || errors.Is(err, models.ErrAudioToolFailed) {
		return false
	}
	var sfe *models.SynthesisFailedError
	if errors.As(err, &sfe) {
		return true
	}
	if errors.Is(err, models.ErrInvalidTimestamps) {
		return true
	}
	return false
}
