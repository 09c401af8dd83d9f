package audio

import (
	"path/filepath"
	"testing"

	"dubsync/internal/config"
)

func TestSilence_SampleCount(t *testing.T) {
	a := Silence(1.0)
	if len(a.PCM) != config.AudioSampleRate {
		t.Errorf("Silence(1.0) sample count = %d, want %d", len(a.PCM), config.AudioSampleRate)
	}
	if !a.IsInMemory() {
		t.Error("expected silence artifact to be in-memory")
	}
}

func TestSilence_Zero(t *testing.T) {
	a := Silence(0)
	if len(a.PCM) != 0 {
		t.Errorf("Silence(0) sample count = %d, want 0", len(a.PCM))
	}
}

func TestSilence_Negative(t *testing.T) {
	a := Silence(-1)
	if len(a.PCM) != 0 {
		t.Errorf("Silence(-1) sample count = %d, want 0", len(a.PCM))
	}
}

func TestWriteReadWAV_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.wav")

	pcm := make([]int, 1000)
	for i := range pcm {
		pcm[i] = i % 100
	}

	if err := WriteWAV(path, pcm, config.AudioSampleRate); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}

	got, rate, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if rate != config.AudioSampleRate {
		t.Errorf("sample rate = %d, want %d", rate, config.AudioSampleRate)
	}
	if len(got) != len(pcm) {
		t.Fatalf("sample count = %d, want %d", len(got), len(pcm))
	}
	for i := range pcm {
		if got[i] != pcm[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], pcm[i])
		}
	}
}

func TestDownmix_Stereo(t *testing.T) {
	// L=10,R=20 -> 15; L=0,R=0 -> 0
	stereo := []int{10, 20, 0, 0}
	mono := downmix(stereo, 2)
	if len(mono) != 2 {
		t.Fatalf("len(mono) = %d, want 2", len(mono))
	}
	if mono[0] != 15 {
		t.Errorf("mono[0] = %d, want 15", mono[0])
	}
	if mono[1] != 0 {
		t.Errorf("mono[1] = %d, want 0", mono[1])
	}
}
