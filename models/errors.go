package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dubbing engine's error taxonomy. A job recovers by
// degrading strategy on these, never by skipping a single segment.
var (
	// ErrInvalidTimestamps means the recognizer gave non-numeric or
	// non-finite segment bounds. Triggers a fallback to the proportional
	// strategy.
	ErrInvalidTimestamps = errors.New("recognizer segment has invalid timestamps")

	// ErrAudioToolFailed wraps a non-retryable failure in the audio
	// toolkit (stretch/concat/probe). Surfaced as a job failure.
	ErrAudioToolFailed = errors.New("audio tool operation failed")

	// ErrCancelled is returned when a job is torn down by cooperative
	// cancellation between segments.
	ErrCancelled = errors.New("job cancelled")

	// ErrBadTimestamp is returned by the timestamp ingest parser on
	// malformed input. Rejects the job before any synthesis happens.
	ErrBadTimestamp = errors.New("malformed timestamp")

	// ErrEmptyTarget is returned by the splitter when asked for a
	// non-positive number of parts.
	ErrEmptyTarget = errors.New("split target count must be positive")

	// ErrInvalidEncoding is returned when translated text is not
	// well-formed UTF-8. The engine trusts UTF-8 and fails loudly rather
	// than guessing at a re-encoding heuristic.
	ErrInvalidEncoding = errors.New("translated text is not valid UTF-8")
)

// SynthesisFailedError reports that synthesizing segment Index failed or
// produced an empty stream. The engine responds by falling back to the next
// lower strategy for the whole job, not by skipping the segment.
type SynthesisFailedError struct {
	Index int
	Err   error
}

func (e *SynthesisFailedError) Error() string {
	return fmt.Sprintf("segment %d: synthesis failed: %v", e.Index, e.Err)
}

func (e *SynthesisFailedError) Unwrap() error {
	return e.Err
}

// NewSynthesisFailed wraps a synthesizer error with its segment index.
func NewSynthesisFailed(index int, err error) *SynthesisFailedError {
	return &SynthesisFailedError{Index: index, Err: err}
}
