package dubbing

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"dubsync/models"
)

type fakeSynth struct {
	body string
	err  error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice string, rate models.AdaptiveRate) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type fakeToolkit struct {
	probeDurations map[string]time.Duration
	convertErr     error
	stretchErr     error
}

func (f *fakeToolkit) Probe(ctx context.Context, path string) (time.Duration, error) {
	if d, ok := f.probeDurations[path]; ok {
		return d, nil
	}
	return 0, nil
}

func (f *fakeToolkit) Convert(ctx context.Context, inputPath, outputPath string) error {
	return f.convertErr
}

func (f *fakeToolkit) TimeStretch(ctx context.Context, inputPath, outputPath string, factor float64) error {
	return f.stretchErr
}

func (f *fakeToolkit) ConcatCrossfade(ctx context.Context, inputPaths []string, crossfadeMS int, outputPath string) error {
	return nil
}

func newTestJob(t *testing.T) *models.Job {
	t.Helper()
	job, cancel, err := models.NewJob(t.TempDir(), 10, nil, "", "en", "es")
	if err != nil {
		t.Fatalf("NewJob() error = %v", err)
	}
	t.Cleanup(func() {
		cancel()
		job.Close()
	})
	return job
}

func TestSynthesizeSegment_PlaceholderTextYieldsOnlySilence(t *testing.T) {
	job := newTestJob(t)
	sc := &SynthesisContext{
		Job:     job,
		Synth:   &fakeSynth{err: errors.New("should not be called")},
		Toolkit: &fakeToolkit{},
		Voice:   "en-US-JennyNeural",
	}

	seg := models.TimedSegment{Text: models.SilencePlaceholder, StartS: 0, EndS: 3}
	artifacts, sample, err := SynthesizeSegment(context.Background(), sc, 0, 1, seg, 0)
	if err != nil {
		t.Fatalf("SynthesizeSegment() error = %v", err)
	}
	if sample != nil {
		t.Errorf("sample = %+v, want nil for placeholder segment", sample)
	}
	if len(artifacts) != 1 || !artifacts[0].IsInMemory() {
		t.Fatalf("artifacts = %+v, want one in-memory silence artifact", artifacts)
	}
}

func TestSynthesizeSegment_LeadingSilenceEmittedForFirstSegmentGap(t *testing.T) {
	job := newTestJob(t)
	toolkit := &fakeToolkit{probeDurations: map[string]time.Duration{}}
	sc := &SynthesisContext{
		Job:     job,
		Synth:   &fakeSynth{body: "fake-audio-bytes"},
		Toolkit: toolkit,
		Voice:   "en-US-JennyNeural",
		K:       1,
	}
	// Seed the probe result for whatever wav path gets generated for segment 0.
	toolkit.probeDurations = map[string]time.Duration{
		job.TempFile("seg-0000.wav"): 2 * time.Second,
	}

	seg := models.TimedSegment{Text: "hello", StartS: 1.0, EndS: 3.0}
	artifacts, sample, err := SynthesizeSegment(context.Background(), sc, 0, 1, seg, 0)
	if err != nil {
		t.Fatalf("SynthesizeSegment() error = %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("len(artifacts) = %d, want 2 (leading silence + segment)", len(artifacts))
	}
	if !artifacts[0].IsInMemory() {
		t.Errorf("artifacts[0] should be the in-memory leading silence")
	}
	if sample == nil {
		t.Fatalf("sample = nil, want a calibration sample since segment 0 is within K=1")
	}
}

func TestSynthesizeSegment_NoCalibrationSampleWhenBeyondK(t *testing.T) {
	job := newTestJob(t)
	toolkit := &fakeToolkit{probeDurations: map[string]time.Duration{
		job.TempFile("seg-0005.wav"): 2 * time.Second,
	}}
	sc := &SynthesisContext{
		Job:     job,
		Synth:   &fakeSynth{body: "fake-audio-bytes"},
		Toolkit: toolkit,
		Voice:   "en-US-JennyNeural",
		K:       3,
	}

	seg := models.TimedSegment{Text: "hello", StartS: 5.0, EndS: 7.0}
	_, sample, err := SynthesizeSegment(context.Background(), sc, 5, 10, seg, 5.0)
	if err != nil {
		t.Fatalf("SynthesizeSegment() error = %v", err)
	}
	if sample != nil {
		t.Errorf("sample = %+v, want nil beyond K", sample)
	}
}

func TestSynthesizeSegment_SynthesizerErrorWraps(t *testing.T) {
	job := newTestJob(t)
	sc := &SynthesisContext{
		Job:     job,
		Synth:   &fakeSynth{err: errors.New("boom")},
		Toolkit: &fakeToolkit{},
		Voice:   "en-US-JennyNeural",
	}

	seg := models.TimedSegment{Text: "hello", StartS: 0, EndS: 2}
	_, _, err := SynthesizeSegment(context.Background(), sc, 0, 1, seg, 0)

	var sfe *models.SynthesisFailedError
	if !errors.As(err, &sfe) {
		t.Fatalf("error = %v, want *SynthesisFailedError", err)
	}
	if sfe.Index != 0 {
		t.Errorf("sfe.Index = %d, want 0", sfe.Index)
	}
}
