package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"dubsync/internal/acquire"
	"dubsync/internal/audio"
	"dubsync/internal/dubbing"
	"dubsync/internal/logger"
	"dubsync/internal/subtitle"
	texttools "dubsync/internal/text"
	"dubsync/models"
)

// segmentsFile is the on-disk shape of the --segments input: the recognizer
// output and original audio duration that would otherwise come from the
// (out-of-scope) speech recognizer. Segment bounds are ingested as
// timestamp strings (either "HH:MM:SS,mmm"/"HH:MM:SS.mmm" or bare
// milliseconds) and parsed through internal/subtitle.ParseIngestTimestamp,
// so a malformed bound rejects the job before any synthesis happens.
type segmentsFile struct {
	OrigDurationS float64 `json:"orig_duration_s"`
	Segments      []struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Text  string `json:"text"`
	} `json:"segments"`
}

func main() {
	var (
		videoSource    = pflag.StringP("video", "i", "", "source video: a local path or a YouTube URL")
		segmentsPath   = pflag.StringP("segments", "s", "", "path to a JSON file with orig_duration_s and recognizer segments")
		translatedPath = pflag.StringP("translated-text", "t", "", "path to a file containing the translated text")
		sourceLang     = pflag.String("source-lang", "en", "ISO 639-1 source language code")
		targetLang     = pflag.String("target-lang", "es", "ISO 639-1 target language code")
		ttsEndpoint    = pflag.String("tts-endpoint", "", "neural voice synthesizer RPC endpoint")
		ttsAPIKey      = pflag.String("tts-api-key", "", "bearer token for the synthesizer endpoint")
		ttsName        = pflag.String("tts-client-name", "default", "name under which the synthesizer's pooled HTTP client is cached")
		ffmpegPath     = pflag.String("ffmpeg", "", "path to the ffmpeg binary (auto-detected when empty)")
		configPath     = pflag.String("config", "", "path to an engine tunables YAML file")
		downloadDir    = pflag.String("download-dir", "", "directory remote video downloads are written to (defaults to a temp dir)")
		outputDir      = pflag.String("output-dir", "", "directory the dubbed audio track and job scratch files are written under")
		srtOutput      = pflag.String("srt-output", "", "optional path to write an SRT transcript of the dub's timing")
		verbose        = pflag.BoolP("verbose", "v", false, "log per-segment synthesis events")
	)
	pflag.Parse()

	if *segmentsPath == "" || *translatedPath == "" || *ttsEndpoint == "" {
		fmt.Fprintln(os.Stderr, "usage: dubbing-engine --segments FILE --translated-text FILE --tts-endpoint URL [--video SOURCE] ...")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if !texttools.IsValidSourceLanguage(*sourceLang) {
		logger.Warn("dubbing-engine: unrecognized source language code, proceeding anyway", "code", *sourceLang)
	}
	if !texttools.IsValidTargetLanguage(*targetLang) {
		logger.Warn("dubbing-engine: unrecognized target language code, proceeding anyway", "code", *targetLang)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, runOptions{
		videoSource:    *videoSource,
		segmentsPath:   *segmentsPath,
		translatedPath: *translatedPath,
		sourceLang:     *sourceLang,
		targetLang:     *targetLang,
		ttsEndpoint:    *ttsEndpoint,
		ttsAPIKey:      *ttsAPIKey,
		ttsName:        *ttsName,
		ffmpegPath:     *ffmpegPath,
		configPath:     *configPath,
		downloadDir:    *downloadDir,
		outputDir:      *outputDir,
		srtOutput:      *srtOutput,
		verbose:        *verbose,
	}); err != nil {
		logger.Error("dubbing-engine: job failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	videoSource    string
	segmentsPath   string
	translatedPath string
	sourceLang     string
	targetLang     string
	ttsEndpoint    string
	ttsAPIKey      string
	ttsName        string
	ffmpegPath     string
	configPath     string
	downloadDir    string
	outputDir      string
	srtOutput      string
	verbose        bool
}

func run(ctx context.Context, opts runOptions) error {
	if opts.videoSource != "" {
		if _, err := acquireVideo(ctx, opts.videoSource, opts.downloadDir); err != nil {
			return fmt.Errorf("acquire video: %w", err)
		}
	}

	sf, err := loadSegmentsFile(opts.segmentsPath)
	if err != nil {
		return fmt.Errorf("load segments: %w", err)
	}
	translatedText, err := os.ReadFile(opts.translatedPath)
	if err != nil {
		return fmt.Errorf("load translated text: %w", err)
	}

	segs := make([]models.RecognizerSegment, len(sf.Segments))
	for i, s := range sf.Segments {
		startD, err := subtitle.ParseIngestTimestamp(s.Start)
		if err != nil {
			return fmt.Errorf("%w: segment %d start: %v", models.ErrBadTimestamp, i, err)
		}
		endD, err := subtitle.ParseIngestTimestamp(s.End)
		if err != nil {
			return fmt.Errorf("%w: segment %d end: %v", models.ErrBadTimestamp, i, err)
		}
		segs[i] = models.RecognizerSegment{
			StartS: subtitle.DurationToSeconds(startD),
			EndS:   subtitle.DurationToSeconds(endD),
			Text:   s.Text,
		}
	}

	cfg := models.DefaultEngineConfig()
	if opts.configPath != "" {
		cfg, err = models.LoadEngineConfig(opts.configPath)
		if err != nil {
			return fmt.Errorf("load engine config: %w", err)
		}
	}

	job, cancel, err := models.NewJob(opts.outputDir, sf.OrigDurationS, segs, string(translatedText), opts.sourceLang, opts.targetLang)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	defer cancel()
	defer job.Close()

	var toolkit dubbing.AudioToolkit
	if opts.ffmpegPath != "" {
		toolkit = audio.NewToolkitWithPath(opts.ffmpegPath)
	} else {
		toolkit = audio.NewToolkit()
	}

	collab := dubbing.Collaborators{
		Synth:   dubbing.NewHTTPSynthesizer(opts.ttsName, opts.ttsEndpoint, opts.ttsAPIKey),
		Toolkit: toolkit,
	}

	if opts.verbose {
		logger.SetLevel(logger.LevelDebug)
	}

	outputPath, summary, err := dubbing.Run(ctx, job, cfg, collab)
	if err != nil {
		return err
	}

	if opts.srtOutput != "" {
		subs := models.TimedSegmentsToSubtitles(summary.AlignedSegments)
		if err := subtitle.WriteSRTFile(opts.srtOutput, subs); err != nil {
			return fmt.Errorf("write srt transcript: %w", err)
		}
	}

	logger.Info("dubbing-engine: job completed",
		"output", outputPath,
		"target_language", texttools.GetLanguageName(opts.targetLang),
		"segments", summary.Segments,
		"final_duration_s", summary.FinalDuration,
		"accuracy_pct", summary.AccuracyPercent,
	)
	fmt.Println(outputPath)
	return nil
}

func acquireVideo(ctx context.Context, source, downloadDir string) (string, error) {
	var acquirer dubbing.VideoAcquirer
	if isRemoteSource(source) {
		if downloadDir == "" {
			downloadDir = os.TempDir()
		}
		acquirer = acquire.NewYouTubeAcquirer(downloadDir)
	} else {
		acquirer = acquire.NewLocalAcquirer()
	}
	return acquirer.Acquire(ctx, source)
}

func isRemoteSource(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func loadSegmentsFile(path string) (*segmentsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf segmentsFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &sf, nil
}
