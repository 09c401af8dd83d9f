package dubbing

import (
	"unicode/utf8"

	texttools "dubsync/internal/text"
	"dubsync/models"
)

// breakClass is one candidate boundary marker, in descending preference
// order. Kept as an ordered slice rather than a map so "preferring break
// characters in this order" is iteration order, not incidental map luck.
type breakClass struct {
	marker string
}

var breakClasses = []breakClass{
	{". "}, {"! "}, {"? "}, {"; "}, {", "},
	{" "},
	{"."}, {"!"}, {"?"}, {";"}, {","},
}

// Split partitions text into exactly n non-empty parts, cutting near the
// proportional ideal position and preferring linguistic break characters
// within a search window around it.
func Split(text string, n int) ([]string, error) {
	if n <= 0 {
		return nil, models.ErrEmptyTarget
	}
	if err := validateUTF8(text); err != nil {
		return nil, err
	}

	text = texttools.Preprocess(text)
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return padParts(nil, n), nil
	}

	var parts []string
	cursor := 0
	for i := 0; i < n && cursor < total; i++ {
		remaining := n - i
		ideal := roundDiv((i+1)*total, n)
		if ideal > total {
			ideal = total
		}

		cut := findCut(runes, cursor, ideal, total, n)
		if cut <= cursor {
			// Progress invariant: always advance, even with no break
			// candidate in range.
			cut = cursor + ceilDiv(total-cursor, remaining)
			if cut > total {
				cut = total
			}
		}

		part := texttools.Postprocess(string(runes[cursor:cut]))
		if part == "" {
			part = models.SilencePlaceholder
		}
		parts = append(parts, part)
		cursor = cut
	}

	return padParts(parts, n), nil
}

// findCut searches a window of ±0.2*(total/n) runes around ideal for the
// best break candidate, trying break classes in preference order and, for
// ties within a class, the candidate closest to ideal.
func findCut(runes []rune, cursor, ideal, total, n int) int {
	window := int(0.2 * float64(total) / float64(n))
	if window < 1 {
		window = 1
	}
	lo := ideal - window
	if lo < cursor {
		lo = cursor
	}
	hi := ideal + window
	if hi > total {
		hi = total
	}
	if lo >= hi {
		return ideal
	}

	for _, bc := range breakClasses {
		best := -1
		bestDist := total + 1
		marker := []rune(bc.marker)
		for pos := lo; pos <= hi-len(marker); pos++ {
			if runesEqual(runes[pos:pos+len(marker)], marker) {
				cutAt := pos + len(marker)
				dist := abs(cutAt - ideal)
				if dist < bestDist {
					best = cutAt
					bestDist = dist
				}
			}
		}
		if best >= 0 {
			return best
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	return (num*2 + den) / (den * 2)
}

func ceilDiv(num, den int) int {
	if den <= 0 {
		return num
	}
	return (num + den - 1) / den
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// padParts enforces the exactly-N postcondition: pad short results with
// silence placeholders, truncate long ones.
func padParts(parts []string, n int) []string {
	for len(parts) < n {
		parts = append(parts, models.SilencePlaceholder)
	}
	if len(parts) > n {
		parts = parts[:n]
	}
	return parts
}

// validateUTF8 rejects translated text that is not well-formed UTF-8,
// trusting the translator's encoding rather than guessing at Latin-1 or
// heuristic re-encoding.
func validateUTF8(s string) error {
	if !utf8.ValidString(s) {
		return models.ErrInvalidEncoding
	}
	return nil
}
