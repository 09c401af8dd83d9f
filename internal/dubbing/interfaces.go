// Package dubbing implements the Temporal Dub Synthesis Engine: the
// subsystem that turns an original audio duration, a list of recognizer
// segments, and a translated text into a single dubbed audio track whose
// timing tracks the original within tolerance.
package dubbing

import (
	"context"
	"io"
	"time"

	"dubsync/models"
)

// VideoAcquirer yields a local video file path, either by downloading a
// remote URL or by passing a local file through unchanged.
type VideoAcquirer interface {
	Acquire(ctx context.Context, source string) (localPath string, err error)
}

// AudioDemuxer extracts a mono PCM waveform at a fixed sample rate from a
// video container.
type AudioDemuxer interface {
	Demux(ctx context.Context, videoPath string, sampleRate int) (wavPath string, err error)
}

// SpeechRecognizer returns recognized text, its language, and segment
// intervals for an audio file.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audioPath string) (text, language string, segments []models.RecognizerSegment, err error)
}

// Translator returns the translated text for a source/target language pair.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// VoiceSynthesizer is the neural TTS RPC contract (§6): given text, a voice
// identifier, and a rate bias, it returns a compressed audio stream.
type VoiceSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string, rate models.AdaptiveRate) (io.ReadCloser, error)
}

// VideoRemuxer copies the original video stream and replaces its audio
// track with the dubbed one.
type VideoRemuxer interface {
	Remux(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// AudioToolkit exposes the ffmpeg-backed primitives the engine needs beyond
// what it can do in pure Go: pitch-invariant time-stretch, crossfade
// concatenation, and duration probing. internal/audio.Toolkit implements
// this with real ffmpeg exec calls.
type AudioToolkit interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
	Convert(ctx context.Context, inputPath, outputPath string) error
	TimeStretch(ctx context.Context, inputPath, outputPath string, factor float64) error
	ConcatCrossfade(ctx context.Context, inputPaths []string, crossfadeMS int, outputPath string) error
}
