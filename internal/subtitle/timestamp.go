package subtitle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp is returned by ParseIngestTimestamp when its input is
// neither an SRT-style "HH:MM:SS,mmm"/"HH:MM:SS.mmm" string nor bare
// milliseconds. Callers ingesting external timestamp data should wrap this
// with their own domain error rather than let a bad value silently zero out.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp converts an SRT timestamp string to time.Duration.
// Supports both comma and dot as millisecond separators.
// Format: 00:00:00,000 or 00:00:00.000
func ParseTimestamp(ts string) time.Duration {
	// Normalize separator (SRT uses comma, some use dot)
	ts = strings.Replace(ts, ",", ".", 1)

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.Atoi(secParts[0])
	millis := 0
	if len(secParts) > 1 {
		millis, _ = strconv.Atoi(truncateMillis(secParts[1]))
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}

// ParseIngestTimestamp parses an externally-supplied timestamp that may
// arrive either as an SRT-style "HH:MM:SS,mmm"/"HH:MM:SS.mmm" string or as
// bare milliseconds (e.g. a recognizer emitting "1500" for 1.5s). Unlike
// ParseTimestamp, it rejects malformed input instead of returning zero.
func ParseIngestTimestamp(ts string) (time.Duration, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, fmt.Errorf("%w: empty timestamp", ErrMalformedTimestamp)
	}

	if !strings.Contains(ts, ":") {
		ms, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric milliseconds: %v", ErrMalformedTimestamp, ts, err)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}

	normalized := strings.Replace(ts, ",", ".", 1)
	parts := strings.Split(normalized, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q does not have HH:MM:SS form", ErrMalformedTimestamp, ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: bad hours in %q: %v", ErrMalformedTimestamp, ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad minutes in %q: %v", ErrMalformedTimestamp, ts, err)
	}

	secParts := strings.Split(parts[2], ".")
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: bad seconds in %q: %v", ErrMalformedTimestamp, ts, err)
	}
	millis := 0
	if len(secParts) > 1 {
		millis, err = strconv.Atoi(truncateMillis(secParts[1]))
		if err != nil {
			return 0, fmt.Errorf("%w: bad milliseconds in %q: %v", ErrMalformedTimestamp, ts, err)
		}
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// truncateMillis keeps only the first 3 digits of a millisecond sub-field,
// so a fractional-seconds value with extra precision (e.g. "1234" from
// "00:00:01.1234") truncates to "123" ms rather than being parsed whole.
func truncateMillis(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

// ParseTimestampToSeconds converts timestamp like "00:05:30.500" to seconds as float64.
// Useful for progress calculations.
func ParseTimestampToSeconds(ts string) float64 {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.ParseFloat(parts[0], 64)
	minutes, _ := strconv.ParseFloat(parts[1], 64)

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.ParseFloat(secParts[0], 64)
	millis := 0.0
	if len(secParts) > 1 {
		millis, _ = strconv.ParseFloat("0."+secParts[1], 64)
	}

	return hours*3600 + minutes*60 + seconds + millis
}

// FormatTimestamp converts a time.Duration to SRT timestamp format.
// Output format: 00:00:00,000
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// FormatTimestampDot converts a time.Duration to timestamp format with dot separator.
// Output format: 00:00:00.000
func FormatTimestampDot(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// DurationToSeconds converts a time.Duration to seconds as float64.
func DurationToSeconds(d time.Duration) float64 {
	return d.Seconds()
}

// SecondsToDuration converts seconds as float64 to time.Duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
