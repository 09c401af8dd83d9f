package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"dubsync/internal/config"
	"dubsync/models"
)

// Silence returns a mono PCM buffer of silence spanning durationS seconds at
// the engine's internal sample rate. It never touches disk or ffmpeg: short
// silence gaps (leading, inter-segment, trailing) are the common case and
// are cheap enough to synthesize directly.
func Silence(durationS float64) *models.AudioArtifact {
	n := int(durationS * float64(config.AudioSampleRate))
	if n < 0 {
		n = 0
	}
	return &models.AudioArtifact{
		PCM:      make([]int, n),
		Duration: time.Duration(float64(n) / float64(config.AudioSampleRate) * float64(time.Second)),
	}
}

// WriteWAV writes a mono 16-bit PCM buffer to path as a WAV file.
func WriteWAV(path string, pcm []int, sampleRate int) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, config.AudioChannels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: config.AudioChannels, SampleRate: sampleRate},
		Data:   pcm,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: write wav samples: %v", models.ErrAudioToolFailed, err)
	}
	return enc.Close()
}

// ReadWAV reads a WAV file into a mono 16-bit PCM buffer, downmixing to one
// channel if the source has more.
func ReadWAV(path string) ([]int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode wav: %v", models.ErrAudioToolFailed, err)
	}

	if buf.Format.NumChannels <= 1 {
		return buf.Data, buf.Format.SampleRate, nil
	}
	return downmix(buf.Data, buf.Format.NumChannels), buf.Format.SampleRate, nil
}

func downmix(data []int, channels int) []int {
	mono := make([]int, len(data)/channels)
	for i := range mono {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += data[i*channels+c]
		}
		mono[i] = sum / channels
	}
	return mono
}
