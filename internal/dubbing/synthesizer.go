package dubbing

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dubsync/internal/audio"
	"dubsync/internal/blocking"
	"dubsync/models"
)

const (
	silenceGapThresholdS  = 0.02
	timeStretchThresholdS = 0.001
	synthesisTimeout      = 30 * time.Second
	previewRunes          = 60
)

// SynthesisContext bundles the collaborators and per-job settings the
// segment synthesizer needs; it is constructed once per job and reused
// across every segment.
type SynthesisContext struct {
	Job     *models.Job
	Synth   VoiceSynthesizer
	Toolkit AudioToolkit
	Voice   string
	Rate    models.AdaptiveRate
	K       int
	Events  models.EventFunc
}

// SynthesizeSegment runs the per-segment pipeline (§4.4): leading silence,
// placeholder short-circuit, synthesize, measure, calibration sampling, and
// time-stretch. It returns the artifacts to enqueue in order and, when the
// segment falls within the calibration population, the sample it produced.
func SynthesizeSegment(ctx context.Context, sc *SynthesisContext, i, total int, seg models.TimedSegment, prevEndS float64) ([]*models.AudioArtifact, *models.CalibrationSample, error) {
	var artifacts []*models.AudioArtifact

	gap := seg.StartS - prevEndS
	if i == 0 {
		gap = seg.StartS
	}
	if gap > silenceGapThresholdS {
		artifacts = append(artifacts, sc.Job.NewArtifact(audio.Silence(gap)))
	}

	targetS := seg.DurationS()

	if strings.TrimSpace(seg.Text) == "" {
		artifacts = append(artifacts, sc.Job.NewArtifact(audio.Silence(targetS)))
		sc.Events.Emit(models.SegmentEvent{
			Index: i, Total: total, TextPreview: "",
			TargetS: targetS, ActualS: targetS,
			CalibrationPhase: i < sc.K, SilenceBeforeS: gap,
		})
		return artifacts, nil, nil
	}

	calibrating := i < sc.K
	rate := sc.Rate
	if calibrating {
		rate = 0
	}

	synthCtx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	stream, err := sc.Synth.Synthesize(synthCtx, seg.Text, sc.Voice, rate)
	if err != nil {
		return nil, nil, models.NewSynthesisFailed(i, err)
	}
	defer stream.Close()

	// From here on, a failing call is an audio-tool failure, not a
	// synthesizer failure: it surfaces as a job failure rather than
	// triggering a strategy degrade (§7).
	rawPath := sc.Job.TempFile(fmt.Sprintf("seg-%04d-raw", i))
	if err := writeStream(rawPath, stream); err != nil {
		return nil, nil, fmt.Errorf("%w: write synthesizer stream: %v", models.ErrAudioToolFailed, err)
	}

	wavPath := sc.Job.TempFile(fmt.Sprintf("seg-%04d.wav", i))
	if _, err := blocking.Offload(ctx, func() (struct{}, error) {
		return struct{}{}, sc.Toolkit.Convert(synthCtx, rawPath, wavPath)
	}); err != nil {
		return nil, nil, err
	}

	actualDur, err := blocking.Offload(ctx, func() (time.Duration, error) {
		return sc.Toolkit.Probe(synthCtx, wavPath)
	})
	if err != nil {
		return nil, nil, err
	}
	actualS := actualDur.Seconds()

	var sample *models.CalibrationSample
	if calibrating {
		sample = &models.CalibrationSample{TargetS: targetS, ActualS: actualS}
	}

	finalPath := wavPath
	stretched := false
	diff := targetS - actualS
	if (diff > timeStretchThresholdS || diff < -timeStretchThresholdS) && actualS > 0 && targetS > 0 {
		factor := actualS / targetS
		stretchedPath := sc.Job.TempFile(fmt.Sprintf("seg-%04d-stretched.wav", i))
		if _, err := blocking.Offload(ctx, func() (struct{}, error) {
			return struct{}{}, sc.Toolkit.TimeStretch(synthCtx, wavPath, stretchedPath, factor)
		}); err != nil {
			return nil, nil, err
		}
		finalPath = stretchedPath
		stretched = true
	}

	artifacts = append(artifacts, sc.Job.NewArtifact(&models.AudioArtifact{
		Path:     finalPath,
		Duration: time.Duration(targetS * float64(time.Second)),
	}))

	sc.Events.Emit(models.SegmentEvent{
		Index: i, Total: total,
		TextPreview:      preview(seg.Text),
		TargetS:          targetS,
		ActualS:          actualS,
		Stretched:        stretched,
		DifferenceS:      diff,
		TTSRate:          rate,
		CalibrationPhase: calibrating,
		SilenceBeforeS:   gap,
	})

	return artifacts, sample, nil
}

func writeStream(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "…"
}
