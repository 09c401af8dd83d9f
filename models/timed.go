package models

// TimedSegment pairs a translated-language string with the original-audio
// interval it should occupy, in seconds. Post-alignment, StartS < EndS for
// every element and the list is non-overlapping and non-decreasing.
type TimedSegment struct {
	Text   string
	StartS float64
	EndS   float64
}

// DurationS returns the target duration of the segment in seconds.
func (t TimedSegment) DurationS() float64 {
	return t.EndS - t.StartS
}

// SilencePlaceholder is the text used to represent a silence-only interval;
// TimedSegment.Text is never the empty string, per §3.
const SilencePlaceholder = " "
