package models

import (
	"os"
	"sync"
	"time"
)

// AudioArtifact is an opaque handle to a PCM WAV buffer or file, plus a
// cached duration. It is always mono, 44.1kHz, 16-bit PCM once it reaches
// the assembler (§6 "Internal audio format"). Artifacts are owned by a
// Job's arena and borrowed by the assembler; callers never delete the
// underlying file directly.
type AudioArtifact struct {
	// Path is set when the artifact lives on disk (synthesizer output,
	// stretched segments — operations ffmpeg performs on files).
	Path string

	// PCM is set when the artifact lives in memory (silence, in-process
	// decoded segments). Samples are interleaved per channel; for this
	// engine channel count is always 1.
	PCM []int

	Duration time.Duration
}

// IsInMemory reports whether the artifact has no backing file.
func (a *AudioArtifact) IsInMemory() bool {
	return a.Path == ""
}

// artifactArena tracks every temp file created for a job so they can all be
// released on any exit path (success, failure, or cancellation), per §3's
// SynthesisJob ownership rule.
type artifactArena struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func newArtifactArena() *artifactArena {
	return &artifactArena{paths: make(map[string]struct{})}
}

// Track registers a file path for later cleanup.
func (a *artifactArena) Track(path string) {
	if path == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paths[path] = struct{}{}
}

// Release deletes every tracked file. Errors are swallowed: cleanup must
// never block job teardown, and a missing file is not a failure.
func (a *artifactArena) Release() {
	a.mu.Lock()
	paths := make([]string, 0, len(a.paths))
	for p := range a.paths {
		paths = append(paths, p)
	}
	a.paths = make(map[string]struct{})
	a.mu.Unlock()

	for _, p := range paths {
		os.Remove(p)
	}
}
