// Package audio provides the hybrid pure-Go / ffmpeg-exec audio primitives
// the dubbing engine builds its segments from: silence and MP3 decode run
// in-process, while time-stretching and crossfade concatenation shell out to
// ffmpeg.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"dubsync/internal/config"
	"dubsync/internal/limiter"
	"dubsync/internal/logger"
	"dubsync/models"
)

// Toolkit is the ffmpeg-backed half of the engine's audio operations:
// everything that ffmpeg does better or more portably than an in-process
// decoder (time-stretching with a real phase vocoder, crossfade mixing).
type Toolkit struct {
	ffmpegPath  string
	ffprobePath string
	cache       *durationCache
}

// NewToolkit creates a Toolkit with auto-detected ffmpeg/ffprobe paths.
func NewToolkit() *Toolkit {
	return NewToolkitWithPath(detectFFmpeg())
}

// NewToolkitWithPath creates a Toolkit using an explicit ffmpeg binary path.
func NewToolkitWithPath(ffmpegPath string) *Toolkit {
	return &Toolkit{
		ffmpegPath:  ffmpegPath,
		ffprobePath: strings.Replace(ffmpegPath, "ffmpeg", "ffprobe", 1),
		cache:       newDurationCache(),
	}
}

func detectFFmpeg() string {
	candidates := []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"ffmpeg",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "ffmpeg"
}

// CheckInstalled verifies ffmpeg is reachable.
func (t *Toolkit) CheckInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, t.ffmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: ffmpeg not found at %s: %v", models.ErrAudioToolFailed, t.ffmpegPath, err)
	}
	return nil
}

// Probe returns a media file's duration, caching results since the engine
// re-probes the same stretched/crossfaded intermediates repeatedly.
func (t *Toolkit) Probe(ctx context.Context, path string) (time.Duration, error) {
	if d, ok := t.cache.Get(path); ok {
		return time.Duration(d * float64(time.Second)), nil
	}

	cmd := exec.CommandContext(ctx, t.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v", models.ErrAudioToolFailed, err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe duration: %v", models.ErrAudioToolFailed, err)
	}
	t.cache.Set(path, seconds)
	return time.Duration(seconds * float64(time.Second)), nil
}

// Convert normalizes an arbitrary audio file to the engine's internal PCM
// format: mono, config.AudioSampleRate, 16-bit.
func (t *Toolkit) Convert(ctx context.Context, inputPath, outputPath string) error {
	if err := ensureDir(outputPath); err != nil {
		return err
	}
	args := []string{
		"-i", inputPath,
		"-ar", fmt.Sprint(config.AudioSampleRate),
		"-ac", fmt.Sprint(config.AudioChannels),
		"-acodec", "pcm_s16le",
		"-y", outputPath,
	}
	return t.run(ctx, args, "convert")
}

// TimeStretch changes inputPath's duration by 1/factor without changing
// pitch, chaining up to two ffmpeg atempo stages (each accepts [0.5, 2.0]).
// Factors outside [0.25, 4.0] are clamped to those bounds.
func (t *Toolkit) TimeStretch(ctx context.Context, inputPath, outputPath string, factor float64) error {
	if err := ensureDir(outputPath); err != nil {
		return err
	}
	args := []string{
		"-i", inputPath,
		"-filter:a", buildAtempoChain(factor),
		"-y", outputPath,
	}
	return t.run(ctx, args, "time-stretch")
}

// buildAtempoChain renders an atempo filter graph for factor, chaining two
// atempo stages when factor falls outside ffmpeg's native [0.5, 2.0] range
// per filter instance. Beyond [0.25, 4.0] the chain is clamped to 0.5*0.5
// or 2.0*2.0.
func buildAtempoChain(factor float64) string {
	const lo, hi = config.MinTimeStretchFactor, config.MaxTimeStretchFactor

	if factor >= lo && factor <= hi {
		return fmt.Sprintf("atempo=%.4f", factor)
	}
	if factor < lo {
		if factor > lo*lo {
			return fmt.Sprintf("atempo=%.4f,atempo=%.4f", lo, factor/lo)
		}
		return fmt.Sprintf("atempo=%.4f,atempo=%.4f", lo, lo)
	}
	if factor < hi*hi {
		return fmt.Sprintf("atempo=%.4f,atempo=%.4f", hi, factor/hi)
	}
	return fmt.Sprintf("atempo=%.4f,atempo=%.4f", hi, hi)
}

// ConcatCrossfade concatenates inputPaths in order, overlapping each
// adjacent pair by crossfadeMS milliseconds using ffmpeg's acrossfade
// filter, which applies a triangular (linear) fade by default.
func (t *Toolkit) ConcatCrossfade(ctx context.Context, inputPaths []string, crossfadeMS int, outputPath string) error {
	if len(inputPaths) == 0 {
		return fmt.Errorf("%w: no segments to assemble", models.ErrAudioToolFailed)
	}
	if err := ensureDir(outputPath); err != nil {
		return err
	}
	if len(inputPaths) == 1 {
		return copyFile(inputPaths[0], outputPath)
	}
	if crossfadeMS <= 0 {
		return t.concatPlain(ctx, inputPaths, outputPath)
	}

	crossfadeS := float64(crossfadeMS) / 1000.0
	args := make([]string, 0, len(inputPaths)*2+4)
	for _, p := range inputPaths {
		args = append(args, "-i", p)
	}

	var filter strings.Builder
	prevLabel := "[0:a]"
	for i := 1; i < len(inputPaths); i++ {
		outLabel := fmt.Sprintf("[cf%d]", i)
		if i == len(inputPaths)-1 {
			outLabel = "[aout]"
		}
		fmt.Fprintf(&filter, "%s[%d:a]acrossfade=d=%.3f:c1=tri:c2=tri%s", prevLabel, i, crossfadeS, outLabel)
		if i != len(inputPaths)-1 {
			filter.WriteString(";")
		}
		prevLabel = outLabel
	}

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[aout]",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(config.AudioSampleRate),
		"-ac", fmt.Sprint(config.AudioChannels),
		"-y", outputPath,
	)
	return t.run(ctx, args, "crossfade concat")
}

// concatPlain hard-cuts the segments together with ffmpeg's concat demuxer,
// used when no crossfade window was requested.
func (t *Toolkit) concatPlain(ctx context.Context, inputPaths []string, outputPath string) error {
	listPath := filepath.Join(filepath.Dir(outputPath), fmt.Sprintf("concat_list_%d.txt", os.Getpid()))
	var sb strings.Builder
	for _, p := range inputPaths {
		fmt.Fprintf(&sb, "file '%s'\n", p)
	}
	if err := os.WriteFile(listPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(config.AudioSampleRate),
		"-ac", fmt.Sprint(config.AudioChannels),
		"-y", outputPath,
	}
	return t.run(ctx, args, "concat")
}

// run shells out to ffmpeg, bounded by the process-wide CPU operation
// limiter so N concurrent jobs don't each spawn their own unbounded
// pool of ffmpeg processes.
func (t *Toolkit) run(ctx context.Context, args []string, operation string) error {
	limiter.AcquireCPUSlot()
	defer limiter.ReleaseCPUSlot()

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Error("ffmpeg operation failed", "operation", operation, "error", err)
		return fmt.Errorf("%w: ffmpeg %s: %v: %s", models.ErrAudioToolFailed, operation, err, string(out))
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
