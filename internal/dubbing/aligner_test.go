package dubbing

import (
	"errors"
	"math"
	"testing"

	"dubsync/models"
	"pgregory.net/rapid"
)

func segs(pairs ...[2]float64) []models.RecognizerSegment {
	out := make([]models.RecognizerSegment, len(pairs))
	for i, p := range pairs {
		out[i] = models.RecognizerSegment{StartS: p[0], EndS: p[1], Text: "x"}
	}
	return out
}

func TestAlign_CaseA_OneToOne(t *testing.T) {
	parts := []string{"ciao", "mondo"}
	rs := segs([2]float64{0, 5}, [2]float64{5, 10})

	aligned, err := Align(parts, rs, 10, nil)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if len(aligned) != 2 {
		t.Fatalf("len(aligned) = %d, want 2", len(aligned))
	}
	if aligned[0].StartS != 0 || aligned[0].EndS != 5 || aligned[0].Text != "ciao" {
		t.Errorf("aligned[0] = %+v", aligned[0])
	}
	if aligned[1].StartS != 5 || aligned[1].EndS != 10 || aligned[1].Text != "mondo" {
		t.Errorf("aligned[1] = %+v", aligned[1])
	}
}

func TestAlign_CaseB_FewerParts(t *testing.T) {
	parts := []string{"only one part"}
	rs := segs([2]float64{0, 5}, [2]float64{5, 10})

	aligned, err := Align(parts, rs, 10, nil)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if len(aligned) != 1 {
		t.Fatalf("len(aligned) = %d, want 1", len(aligned))
	}
	if aligned[0].StartS != 0 || aligned[0].EndS != 10 {
		t.Errorf("aligned[0] spans %v-%v, want whole range", aligned[0].StartS, aligned[0].EndS)
	}
}

func TestAlign_CaseC_MoreParts_RepairsOverlap(t *testing.T) {
	parts := []string{"aa", "bbbb", "c"}
	rs := segs([2]float64{0, 6})

	aligned, err := Align(parts, rs, 6, nil)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if len(aligned) != 3 {
		t.Fatalf("len(aligned) = %d, want 3", len(aligned))
	}
	for i := 1; i < len(aligned); i++ {
		if aligned[i].StartS < aligned[i-1].EndS {
			t.Errorf("overlap between %d and %d: %+v / %+v", i-1, i, aligned[i-1], aligned[i])
		}
	}
	if aligned[0].StartS != 0 {
		t.Errorf("first start = %v, want 0", aligned[0].StartS)
	}
	if aligned[len(aligned)-1].EndS != 6 {
		t.Errorf("last end = %v, want 6", aligned[len(aligned)-1].EndS)
	}
}

func TestAlign_InvalidTimestampsRejected(t *testing.T) {
	parts := []string{"a"}
	rs := []models.RecognizerSegment{{StartS: 0, EndS: math.Inf(1), Text: "x"}}

	_, err := Align(parts, rs, 10, nil)
	if !errors.Is(err, models.ErrInvalidTimestamps) {
		t.Errorf("Align() error = %v, want ErrInvalidTimestamps", err)
	}
}

func TestAlign_InvertedSegmentRepaired(t *testing.T) {
	parts := []string{"a"}
	rs := segs([2]float64{5.0, 4.0})

	aligned, err := Align(parts, rs, 10, nil)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if aligned[0].StartS != 5.0 || aligned[0].EndS != 5.1 {
		t.Errorf("aligned[0] = %+v, want [5.0, 5.1]", aligned[0])
	}
}

func TestAlign_LastEndClampedToOrigDuration(t *testing.T) {
	parts := []string{"a"}
	rs := segs([2]float64{0, 12})

	aligned, err := Align(parts, rs, 10, nil)
	if err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if aligned[0].EndS != 10 {
		t.Errorf("aligned[0].EndS = %v, want clamped to 10", aligned[0].EndS)
	}
}

// TestAlign_NoOverlapsAfterRepair is the property-based check of the
// post-condition that aligned[i].start >= aligned[i-1].end for all i > 0,
// across the M=R, M<R, and M>R regimes.
func TestAlign_NoOverlapsAfterRepair(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.IntRange(1, 8).Draw(t, "r")
		m := rapid.IntRange(1, 8).Draw(t, "m")

		var rs []models.RecognizerSegment
		cursor := 0.0
		for i := 0; i < r; i++ {
			dur := rapid.Float64Range(0.1, 5).Draw(t, "dur")
			rs = append(rs, models.RecognizerSegment{StartS: cursor, EndS: cursor + dur, Text: "x"})
			cursor += dur
		}
		origDuration := cursor

		parts := make([]string, m)
		for i := range parts {
			parts[i] = rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "part")
		}

		aligned, err := Align(parts, rs, origDuration, nil)
		if err != nil {
			t.Fatalf("Align() error = %v", err)
		}
		for i := 1; i < len(aligned); i++ {
			if aligned[i].StartS < aligned[i-1].EndS {
				t.Fatalf("overlap at %d: %+v after %+v", i, aligned[i], aligned[i-1])
			}
		}
		if len(aligned) > 0 && aligned[len(aligned)-1].EndS > origDuration+1e-9 {
			t.Fatalf("last end %v exceeds orig duration %v", aligned[len(aligned)-1].EndS, origDuration)
		}
	})
}
