package models

import (
	"time"

	"dubsync/internal/subtitle"
)

// TimedSegmentsToSubtitles converts an aligned TimedSegment list into the
// subtitle package's representation, for callers that want an SRT-style
// side artifact of the dub's timing (e.g. the CLI's --srt-output flag).
func TimedSegmentsToSubtitles(segs []TimedSegment) subtitle.List {
	out := make(subtitle.List, len(segs))
	for i, s := range segs {
		out[i] = subtitle.Subtitle{
			Index:     i + 1,
			StartTime: time.Duration(s.StartS * float64(time.Second)),
			EndTime:   time.Duration(s.EndS * float64(time.Second)),
			Text:      s.Text,
		}
	}
	return out
}
