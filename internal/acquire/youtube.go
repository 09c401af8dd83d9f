package acquire

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"

	"dubsync/internal/logger"
)

// YouTubeAcquirer is a VideoAcquirer that downloads a YouTube URL's best
// muxed (video+audio) stream to destDir and hands back the local path.
type YouTubeAcquirer struct {
	client  ytdl.Client
	destDir string
}

// NewYouTubeAcquirer returns a YouTubeAcquirer that writes downloaded
// videos under destDir.
func NewYouTubeAcquirer(destDir string) *YouTubeAcquirer {
	return &YouTubeAcquirer{client: ytdl.Client{}, destDir: destDir}
}

// Acquire implements VideoAcquirer.
func (y *YouTubeAcquirer) Acquire(ctx context.Context, source string) (string, error) {
	video, err := y.client.GetVideoContext(ctx, source)
	if err != nil {
		return "", fmt.Errorf("acquire: fetch video metadata: %w", err)
	}

	format, err := bestMuxedFormat(video.Formats)
	if err != nil {
		return "", fmt.Errorf("acquire: %s: %w", video.ID, err)
	}

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", fmt.Errorf("acquire: open stream: %w", err)
	}
	defer stream.Close()

	if err := os.MkdirAll(y.destDir, 0o755); err != nil {
		return "", fmt.Errorf("acquire: create destination dir: %w", err)
	}
	outPath := filepath.Join(y.destDir, sanitizeFilename(video.ID)+extensionFor(format.MimeType))

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("acquire: create output file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, stream); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("acquire: download stream: %w", err)
	}

	logger.Info("acquire: downloaded video", "id", video.ID, "title", video.Title, "path", outPath)
	return outPath, nil
}

// bestMuxedFormat picks the highest-bitrate format that carries both audio
// and video, since the remuxer needs a real video track to preserve and the
// recognizer needs the accompanying original audio.
func bestMuxedFormat(formats ytdl.FormatList) (*ytdl.Format, error) {
	muxed := formats.WithAudioChannels()
	if len(muxed) == 0 {
		return nil, fmt.Errorf("no muxed audio+video format available")
	}
	sort.Slice(muxed, func(i, j int) bool { return muxed[i].Bitrate > muxed[j].Bitrate })
	return &muxed[0], nil
}

func extensionFor(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mp4"):
		return ".mp4"
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	default:
		return ".video"
	}
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
