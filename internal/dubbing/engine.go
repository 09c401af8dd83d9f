package dubbing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dubsync/internal/blocking"
	"dubsync/models"
)

// Collaborators bundles the external dependencies a job needs to run any of
// the three strategies: a voice synthesizer RPC client and the ffmpeg-backed
// audio toolkit.
type Collaborators struct {
	Synth   VoiceSynthesizer
	Toolkit AudioToolkit
}

const proportionalTrimTolerancePct = 0.02

// RunTimestampStrategy is strategy (1) of the fallback ladder (§4.8):
// split the translation into exactly as many parts as there are recognizer
// segments, align one-to-one, then run the shared synthesis pipeline with a
// crossfaded assembly and the 1% final-trim tolerance.
func RunTimestampStrategy(ctx context.Context, job *models.Job, cfg *models.EngineConfig, collab Collaborators) (string, models.JobSummary, error) {
	if err := models.ValidateRecognizerSegments(job.Segments); err != nil {
		return "", models.JobSummary{}, err
	}

	parts, err := Split(job.TranslatedText, len(job.Segments))
	if err != nil {
		return "", models.JobSummary{}, err
	}

	aligned, err := Align(parts, job.Segments, job.OrigDurationS, nil)
	if err != nil {
		return "", models.JobSummary{}, err
	}

	crossfadeMS := models.DefaultEngineConfig().CrossfadeMS
	if cfg != nil {
		crossfadeMS = cfg.CrossfadeMS
	}
	return runAlignedPipeline(ctx, job, cfg, collab, aligned, crossfadeMS, finalTrimTolerancePct)
}

// RunProportionalStrategy is strategy (2): ignore recognizer timestamps,
// split the translation by sentence/clause punctuation, and allocate each
// part's target duration by its proportion of the translation's total
// character count. Assembly has no crossfade and a looser 2% trim
// tolerance.
func RunProportionalStrategy(ctx context.Context, job *models.Job, cfg *models.EngineConfig, collab Collaborators) (string, models.JobSummary, error) {
	n := proportionalPartCount(job.TranslatedText)
	parts, err := Split(job.TranslatedText, n)
	if err != nil {
		return "", models.JobSummary{}, err
	}

	aligned := allocateByCharProportion(parts, job.OrigDurationS)
	return runAlignedPipeline(ctx, job, cfg, collab, aligned, 0, proportionalTrimTolerancePct)
}

// RunSingleShotStrategy is strategy (3), the last rung: synthesize the
// entire translated text in one call at +0% rate and convert it to WAV,
// with no time-stretching at all.
func RunSingleShotStrategy(ctx context.Context, job *models.Job, collab Collaborators) (string, models.JobSummary, error) {
	voice := models.VoiceFor(job.TargetLang)
	text := job.TranslatedText
	if strings.TrimSpace(text) == "" {
		text = models.SilencePlaceholder
	}

	synthCtx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	stream, err := collab.Synth.Synthesize(synthCtx, text, voice, 0)
	if err != nil {
		return "", models.JobSummary{}, models.NewSynthesisFailed(0, err)
	}
	defer stream.Close()

	rawPath := job.TempFile("single-shot-raw")
	if err := writeStream(rawPath, stream); err != nil {
		return "", models.JobSummary{}, fmt.Errorf("%w: write synthesizer stream: %v", models.ErrAudioToolFailed, err)
	}

	wavPath := job.TempFile("single-shot.wav")
	if _, err := blocking.Offload(ctx, func() (struct{}, error) {
		return struct{}{}, collab.Toolkit.Convert(synthCtx, rawPath, wavPath)
	}); err != nil {
		return "", models.JobSummary{}, err
	}

	dur, err := blocking.Offload(ctx, func() (time.Duration, error) {
		return collab.Toolkit.Probe(ctx, wavPath)
	})
	if err != nil {
		return "", models.JobSummary{}, err
	}

	finalS := dur.Seconds()
	diff := finalS - job.OrigDurationS
	accuracy := 0.0
	if job.OrigDurationS > 0 {
		accuracy = 100 * (1 - absF(diff)/job.OrigDurationS)
	}

	return wavPath, models.JobSummary{
		OriginalDuration:  job.OrigDurationS,
		FinalDuration:     finalS,
		DifferenceS:       diff,
		DifferencePercent: 100 * diff / maxNonZero(job.OrigDurationS),
		Segments:          1,
		AccuracyPercent:   accuracy,
		FilesConcatenated: 1,
		AlignedSegments:   []models.TimedSegment{{Text: text, StartS: 0, EndS: job.OrigDurationS}},
	}, nil
}

// runAlignedPipeline is the shared spine of strategies (1) and (2): drive
// the calibrator and synthesizer across the aligned segment list, book-keep
// trailing silence, then assemble.
func runAlignedPipeline(ctx context.Context, job *models.Job, cfg *models.EngineConfig, collab Collaborators, aligned []models.TimedSegment, crossfadeMS int, trimTolerancePct float64) (string, models.JobSummary, error) {
	n := len(aligned)
	k := KFor(n, cfg)
	voice := models.VoiceFor(job.TargetLang)

	sc := &SynthesisContext{
		Job:     job,
		Synth:   collab.Synth,
		Toolkit: collab.Toolkit,
		Voice:   voice,
		K:       k,
	}

	var artifacts []*models.AudioArtifact
	var samples []models.CalibrationSample
	prevEnd := 0.0
	rateApplied := k <= 0

	for i, seg := range aligned {
		if err := ctx.Err(); err != nil {
			return "", models.JobSummary{}, models.ErrCancelled
		}

		if !rateApplied && i == k {
			sc.Rate = ComputeRate(samples)
			rateApplied = true
		}

		segArtifacts, sample, err := SynthesizeSegment(ctx, sc, i, n, seg, prevEnd)
		if err != nil {
			return "", models.JobSummary{}, err
		}
		artifacts = append(artifacts, segArtifacts...)
		if sample != nil {
			samples = append(samples, *sample)
		}
		prevEnd = seg.EndS
	}

	if !rateApplied {
		sc.Rate = ComputeRate(samples)
	}

	totalQueuedS := prevEnd
	if trailing := TrailingSilence(job, prevEnd, job.OrigDurationS); trailing != nil {
		artifacts = append(artifacts, trailing)
		totalQueuedS += trailing.Duration.Seconds()
	}
	CheckConservation(totalQueuedS, job.OrigDurationS)

	path, summary, err := Assemble(ctx, job, collab.Toolkit, artifacts, crossfadeMS, job.OrigDurationS, trimTolerancePct)
	if err != nil {
		return "", models.JobSummary{}, err
	}
	summary.AlignedSegments = aligned
	return path, summary, nil
}

// proportionalPartCount counts sentence/clause boundaries in text to decide
// how many parts the proportional strategy splits into, defaulting to a
// single part for punctuation-free text.
func proportionalPartCount(text string) int {
	count := 0
	for _, r := range text {
		switch r {
		case '.', '!', '?', ';':
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// allocateByCharProportion spans [0, origDurationS] across parts, giving
// each a duration proportional to its character length (§4.8, §9 open
// question: character count is a documented approximation).
func allocateByCharProportion(parts []string, origDurationS float64) []models.TimedSegment {
	totalChars := 0
	for _, p := range parts {
		totalChars += len([]rune(p))
	}
	if totalChars == 0 {
		totalChars = len(parts)
	}

	out := make([]models.TimedSegment, len(parts))
	cursor := 0.0
	for i, p := range parts {
		weight := float64(len([]rune(p)))
		if weight == 0 {
			weight = 1
		}
		var dur float64
		if i == len(parts)-1 {
			dur = origDurationS - cursor
		} else {
			dur = origDurationS * weight / float64(totalChars)
		}
		end := cursor + dur
		out[i] = models.TimedSegment{Text: p, StartS: cursor, EndS: end}
		cursor = end
	}
	return out
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
