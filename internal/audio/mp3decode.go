package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"dubsync/models"
)

// DecodeMP3 decodes an MP3 stream in-process into mono 16-bit PCM samples,
// downmixing from go-mp3's stereo output. The engine's synthesis path does
// not call it: synthesizer responses are normalized with Toolkit.Convert.
func DecodeMP3(r io.Reader) ([]int, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode mp3 stream: %v", models.ErrAudioToolFailed, err)
	}

	var stereo []int16
	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			for i := 0; i+4 <= n; i += 4 {
				l := int16(binary.LittleEndian.Uint16(buf[i : i+2]))
				r := int16(binary.LittleEndian.Uint16(buf[i+2 : i+4]))
				stereo = append(stereo, l, r)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: read mp3 samples: %v", models.ErrAudioToolFailed, err)
		}
	}

	mono := make([]int, len(stereo)/2)
	for i := range mono {
		mono[i] = (int(stereo[2*i]) + int(stereo[2*i+1])) / 2
	}
	return mono, dec.SampleRate(), nil
}
