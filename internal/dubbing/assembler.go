package dubbing

import (
	"context"
	"fmt"
	"math"

	"dubsync/internal/audio"
	"dubsync/internal/blocking"
	"dubsync/internal/config"
	"dubsync/internal/logger"
	"dubsync/models"
)

// finalTrimTolerancePct is the §4.7 threshold above which the assembled
// output gets one global corrective time-stretch.
const finalTrimTolerancePct = 0.01

// Assemble concatenates the job's queued artifacts with a triangular
// crossfade, measures the result, and applies one global pitch-invariant
// time-stretch if the final duration departs from the original by more
// than the trim tolerance. It returns the final output path and a
// JobSummary for observability.
func Assemble(ctx context.Context, job *models.Job, toolkit AudioToolkit, artifacts []*models.AudioArtifact, crossfadeMS int, origDurationS float64, trimTolerancePct float64) (string, models.JobSummary, error) {
	paths, err := materialize(job, artifacts)
	if err != nil {
		return "", models.JobSummary{}, err
	}

	concatPath := job.TempFile("assembled.wav")
	if _, err := blocking.Offload(ctx, func() (struct{}, error) {
		return struct{}{}, toolkit.ConcatCrossfade(ctx, paths, crossfadeMS, concatPath)
	}); err != nil {
		return "", models.JobSummary{}, err
	}

	finalDur, err := blocking.Offload(ctx, func() (float64, error) {
		d, err := toolkit.Probe(ctx, concatPath)
		return d.Seconds(), err
	})
	if err != nil {
		return "", models.JobSummary{}, err
	}

	outputPath := concatPath
	if origDurationS > 0 {
		deviation := math.Abs(finalDur-origDurationS) / origDurationS
		if deviation > trimTolerancePct {
			trimmedPath := job.TempFile("trimmed.wav")
			factor := finalDur / origDurationS
			if _, err := blocking.Offload(ctx, func() (struct{}, error) {
				return struct{}{}, toolkit.TimeStretch(ctx, concatPath, trimmedPath, factor)
			}); err != nil {
				return "", models.JobSummary{}, err
			}
			outputPath = trimmedPath

			trimmedDur, err := blocking.Offload(ctx, func() (float64, error) {
				d, err := toolkit.Probe(ctx, trimmedPath)
				return d.Seconds(), err
			})
			if err != nil {
				return "", models.JobSummary{}, err
			}
			finalDur = trimmedDur
		}
	}

	diff := finalDur - origDurationS
	var accuracy float64
	if origDurationS > 0 {
		accuracy = 100 * (1 - math.Abs(diff)/origDurationS)
	}

	summary := models.JobSummary{
		OriginalDuration:  origDurationS,
		FinalDuration:     finalDur,
		DifferenceS:       diff,
		DifferencePercent: 100 * diff / maxNonZero(origDurationS),
		Segments:          len(artifacts),
		AccuracyPercent:   accuracy,
		FilesConcatenated: len(paths),
	}
	logger.Info("assembler: job finished",
		"final_duration_s", finalDur, "orig_duration_s", origDurationS,
		"accuracy_pct", accuracy, "files", len(paths))

	return outputPath, summary, nil
}

func maxNonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// materialize ensures every artifact has a backing file path, writing
// in-memory PCM buffers (silence) to disk so the toolkit's file-based
// concat step can consume them uniformly.
func materialize(job *models.Job, artifacts []*models.AudioArtifact) ([]string, error) {
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		if !a.IsInMemory() {
			paths[i] = a.Path
			continue
		}
		path := job.TempFile(fmt.Sprintf("silence-%04d.wav", i))
		if err := audio.WriteWAV(path, a.PCM, config.AudioSampleRate); err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}
