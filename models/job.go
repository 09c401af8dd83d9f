package models

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
)

// JobStage names the phase a synthesis job is currently in, surfaced to
// callers through Job.Stage for progress reporting.
type JobStage string

const (
	StageSplitting    JobStage = "splitting"
	StageAligning     JobStage = "aligning"
	StageCalibrating  JobStage = "calibrating"
	StageSynthesizing JobStage = "synthesizing"
	StageAssembling   JobStage = "assembling"
	StageCompleted    JobStage = "completed"
	StageFailed       JobStage = "failed"
)

// Job is the SynthesisJob lifecycle owner (§3): it holds the temporary
// working directory, the original audio duration, the recognizer segments,
// the translated text, and a monotonically increasing progress counter. It
// owns every temporary audio buffer created during the run through its
// arena and releases them all on Close, on any exit path.
type Job struct {
	ID uuid.UUID

	OrigDurationS  float64
	Segments       []RecognizerSegment
	TranslatedText string
	SourceLang     string
	TargetLang     string

	Stage JobStage
	Err   error

	tempDir  string
	arena    *artifactArena
	ctx      context.Context
	cancel   context.CancelFunc
	progress atomic.Int64
}

// NewJob creates a job rooted at a fresh scratch directory under baseDir
// (os.TempDir() when empty). The caller must eventually call Close; the
// returned CancelFunc lets callers cancel the job's context independently
// of Close (e.g. in response to a user abort).
func NewJob(baseDir string, origDurationS float64, segs []RecognizerSegment, translatedText, sourceLang, targetLang string) (*Job, context.CancelFunc, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	id := uuid.New()
	dir := filepath.Join(baseDir, "dubsync-job-"+id.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create job temp dir: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &Job{
		ID:             id,
		OrigDurationS:  origDurationS,
		Segments:       segs,
		TranslatedText: translatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Stage:          StageSplitting,
		tempDir:        dir,
		arena:          newArtifactArena(),
		ctx:            ctx,
		cancel:         cancel,
	}
	return j, cancel, nil
}

// Context returns the job's cancellation context, cancelled by the
// CancelFunc returned from NewJob or by Close. The strategies in
// internal/dubbing poll the context passed to them, not this one.
func (j *Job) Context() context.Context {
	return j.ctx
}

// TempDir returns the job-scoped scratch directory.
func (j *Job) TempDir() string {
	return j.tempDir
}

// TempFile returns a path under the job's temp directory for the given
// name and registers it with the arena for cleanup on Close.
func (j *Job) TempFile(name string) string {
	p := filepath.Join(j.tempDir, name)
	j.arena.Track(p)
	return p
}

// NewArtifact registers an artifact's backing file (if any) with the job's
// arena and returns the artifact unchanged, so callers can assign and
// register in one line.
func (j *Job) NewArtifact(a *AudioArtifact) *AudioArtifact {
	if a != nil && a.Path != "" {
		j.arena.Track(a.Path)
	}
	return a
}

// Advance bumps the monotonic progress counter by delta and returns the new
// value.
func (j *Job) Advance(delta int) int64 {
	return j.progress.Add(int64(delta))
}

// Progress returns the current progress counter value.
func (j *Job) Progress() int64 {
	return j.progress.Load()
}

// Fail marks the job failed and records the cause.
func (j *Job) Fail(err error) {
	j.Stage = StageFailed
	j.Err = err
}

// Close cancels the job's context, releases every artifact it owns, and
// removes its scratch directory. Safe to call on every exit path, including
// after cancellation or failure.
func (j *Job) Close() error {
	j.cancel()
	j.arena.Release()
	return os.RemoveAll(j.tempDir)
}
