package models

import "math"

// RecognizerSegment is a speech-recognizer-produced interval of original
// audio, in seconds, with the recognized source-language text.
type RecognizerSegment struct {
	StartS float64
	EndS   float64
	Text   string
}

// minSegmentSpan is the repaired length given to a zero/negative-duration
// segment (§3: "on start_s >= end_s, extend end_s := start_s + 0.1").
const minSegmentSpan = 0.1

// ValidateRecognizerSegments checks that every segment has finite, numeric
// bounds (§4.2 precondition) and returns ErrInvalidTimestamps otherwise. It
// does not repair anything; repair is a separate, explicit step so callers
// can distinguish "unusable input" from "usable but needs correction."
func ValidateRecognizerSegments(segs []RecognizerSegment) error {
	for _, s := range segs {
		if math.IsNaN(s.StartS) || math.IsInf(s.StartS, 0) ||
			math.IsNaN(s.EndS) || math.IsInf(s.EndS, 0) {
			return ErrInvalidTimestamps
		}
	}
	return nil
}

// RepairSegments extends any zero/negative-duration segment to span at
// least minSegmentSpan, per §3's invariant repair rule. It returns a new
// slice; the input is left untouched.
func RepairSegments(segs []RecognizerSegment) []RecognizerSegment {
	out := make([]RecognizerSegment, len(segs))
	for i, s := range segs {
		if s.StartS >= s.EndS {
			s.EndS = s.StartS + minSegmentSpan
		}
		out[i] = s
	}
	return out
}
