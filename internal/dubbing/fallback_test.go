package dubbing

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"dubsync/models"
)

func TestRun_InvalidTimestampsDegradeToProportional(t *testing.T) {
	job := newTestJobWithSegments(t, 10.0, []models.RecognizerSegment{
		{StartS: 0, EndS: 10, Text: "x"},
	}, "hello there. goodbye now.")
	// Corrupt the segment after job creation to force ValidateRecognizerSegments to fail.
	job.Segments[0].EndS = math.Inf(1)

	collab := Collaborators{
		Synth:   &fakeSynth{body: "audio"},
		Toolkit: &scriptedToolkit{probeDurationS: 5.0},
	}

	_, summary, err := Run(context.Background(), job, nil, collab)
	if err != nil {
		t.Fatalf("Run() error = %v, want proportional strategy to succeed", err)
	}
	if summary.Segments == 0 {
		t.Errorf("summary.Segments = 0, want the proportional strategy to have produced segments")
	}
}

func TestRun_SynthesisFailureDegradesAllTheWayToSingleShot(t *testing.T) {
	job := newTestJobWithSegments(t, 10.0, []models.RecognizerSegment{
		{StartS: 0, EndS: 10, Text: "x"},
	}, "hello there. goodbye now.")

	failingSynth := &failNTimesSynth{failUntilCall: 2}
	collab := Collaborators{
		Synth:   failingSynth,
		Toolkit: &scriptedToolkit{probeDurationS: 5.0},
	}

	path, _, err := Run(context.Background(), job, nil, collab)
	if err != nil {
		t.Fatalf("Run() error = %v, want single-shot strategy to eventually succeed", err)
	}
	if path == "" {
		t.Error("path is empty, want single-shot output path")
	}
}

type failNTimesSynth struct {
	failUntilCall int
	calls         int
}

func (f *failNTimesSynth) Synthesize(ctx context.Context, text, voice string, rate models.AdaptiveRate) (io.ReadCloser, error) {
	f.calls++
	if f.calls <= f.failUntilCall {
		return nil, errors.New("synth unavailable")
	}
	return io.NopCloser(strings.NewReader("audio")), nil
}

func TestDegradable(t *testing.T) {
	if degradable(models.ErrCancelled) {
		t.Error("ErrCancelled should not be degradable")
	}
	if degradable(models.ErrAudioToolFailed) {
		t.Error("ErrAudioToolFailed should not be degradable")
	}
	if !degradable(models.ErrInvalidTimestamps) {
		t.Error("ErrInvalidTimestamps should be degradable")
	}
	if !degradable(models.NewSynthesisFailed(0, errors.New("x"))) {
		t.Error("SynthesisFailedError should be degradable")
	}
}
