package acquire

import (
	"testing"

	ytdl "github.com/kkdai/youtube/v2"
)

func TestBestMuxedFormat_PicksHighestBitrateWithAudio(t *testing.T) {
	formats := ytdl.FormatList{
		{ItagNo: 137, MimeType: "video/mp4", Bitrate: 5_000_000, AudioChannels: 0},
		{ItagNo: 22, MimeType: "video/mp4", Bitrate: 2_000_000, AudioChannels: 2},
		{ItagNo: 18, MimeType: "video/mp4", Bitrate: 800_000, AudioChannels: 2},
	}

	got, err := bestMuxedFormat(formats)
	if err != nil {
		t.Fatalf("bestMuxedFormat() error = %v", err)
	}
	if got.ItagNo != 22 {
		t.Errorf("ItagNo = %d, want 22 (highest-bitrate muxed format)", got.ItagNo)
	}
}

func TestBestMuxedFormat_NoneWithAudioErrors(t *testing.T) {
	formats := ytdl.FormatList{
		{ItagNo: 137, MimeType: "video/mp4", Bitrate: 5_000_000, AudioChannels: 0},
	}
	if _, err := bestMuxedFormat(formats); err == nil {
		t.Error("bestMuxedFormat() error = nil, want error when no format carries audio")
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"video/mp4; codecs=\"avc1\"": ".mp4",
		"video/webm; codecs=\"vp9\"": ".webm",
		"application/octet-stream":   ".video",
	}
	for mime, want := range cases {
		if got := extensionFor(mime); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename(`a/b\c:d*e?f"g<h>i|j`)
	want := "a_b_c_d_e_f_g_h_i_j"
	if got != want {
		t.Errorf("sanitizeFilename() = %q, want %q", got, want)
	}
}
