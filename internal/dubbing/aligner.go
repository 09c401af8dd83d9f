package dubbing

import (
	"dubsync/internal/logger"
	"dubsync/models"
)

// OverlapRedistributor splits a shared interval among a contiguous run of
// aligned segments that collapsed onto it during Case C repair. The default
// (byCharacterCount) is a documented open-question approximation: character
// count understates required time for dense scripts, but no better signal
// is available at alignment time.
type OverlapRedistributor interface {
	Redistribute(runText []string, start, end float64) []models.TimedSegment
}

type byCharacterCount struct{}

func (byCharacterCount) Redistribute(runText []string, start, end float64) []models.TimedSegment {
	total := 0
	for _, t := range runText {
		total += len([]rune(t))
	}
	if total == 0 {
		total = len(runText)
	}

	span := end - start
	out := make([]models.TimedSegment, len(runText))
	cursor := start
	for i, t := range runText {
		weight := float64(len([]rune(t)))
		if weight == 0 {
			weight = 1
		}
		var share float64
		if i == len(runText)-1 {
			share = end - cursor
		} else {
			share = span * weight / float64(total)
		}
		segEnd := cursor + share
		out[i] = models.TimedSegment{Text: t, StartS: cursor, EndS: segEnd}
		cursor = segEnd
	}
	return out
}

// DefaultRedistributor is the character-count-proportional overlap repair
// policy used when the caller does not supply one.
var DefaultRedistributor OverlapRedistributor = byCharacterCount{}

const maxAcceptableGapS = 5.0

// Align pairs translated text with original-audio intervals under the three
// count regimes of the aligner. Cases A (equal counts) and C (more parts than
// recognizer segments) return one TimedSegment per part; Case B (fewer parts)
// returns one per part that receives at least one recognizer segment.
func Align(parts []string, recognizerSegs []models.RecognizerSegment, origDurationS float64, redistributor OverlapRedistributor) ([]models.TimedSegment, error) {
	if err := models.ValidateRecognizerSegments(recognizerSegs); err != nil {
		return nil, err
	}
	if redistributor == nil {
		redistributor = DefaultRedistributor
	}

	segs := models.RepairSegments(recognizerSegs)
	m, r := len(parts), len(segs)

	var aligned []models.TimedSegment
	switch {
	case m == r:
		aligned = alignOneToOne(parts, segs)
	case m < r:
		aligned = alignFewerParts(parts, segs)
	default:
		aligned = alignMoreParts(parts, segs, redistributor)
	}

	return finalizeAlignment(aligned, origDurationS), nil
}

func alignOneToOne(parts []string, segs []models.RecognizerSegment) []models.TimedSegment {
	out := make([]models.TimedSegment, len(parts))
	for i, p := range parts {
		out[i] = models.TimedSegment{Text: p, StartS: segs[i].StartS, EndS: segs[i].EndS}
	}
	return out
}

// alignFewerParts handles Case B (M < R): each recognizer segment maps to
// floor(i*ratio) of the translated parts; a translated index with no
// contributing recognizer segment is omitted.
func alignFewerParts(parts []string, segs []models.RecognizerSegment) []models.TimedSegment {
	m, r := len(parts), len(segs)
	ratio := float64(m) / float64(r)

	type span struct {
		start, end float64
		has        bool
	}
	spans := make([]span, m)
	for i, s := range segs {
		idx := int(float64(i) * ratio)
		if idx > m-1 {
			idx = m - 1
		}
		if !spans[idx].has {
			spans[idx] = span{start: s.StartS, end: s.EndS, has: true}
		} else {
			spans[idx].end = s.EndS
		}
	}

	var out []models.TimedSegment
	for i, sp := range spans {
		if !sp.has {
			continue
		}
		out = append(out, models.TimedSegment{Text: parts[i], StartS: sp.start, EndS: sp.end})
	}
	return out
}

// alignMoreParts handles Case C (M > R): each translated index picks a
// recognizer segment by floor(i*ratio), then repairs any resulting overlap
// runs by redistributing their shared interval proportionally.
func alignMoreParts(parts []string, segs []models.RecognizerSegment, redistributor OverlapRedistributor) []models.TimedSegment {
	m, r := len(parts), len(segs)
	ratio := float64(r) / float64(m)

	raw := make([]models.TimedSegment, m)
	for i, p := range parts {
		j := int(float64(i) * ratio)
		if j > r-1 {
			j = r - 1
		}
		raw[i] = models.TimedSegment{Text: p, StartS: segs[j].StartS, EndS: segs[j].EndS}
	}

	return repairOverlaps(raw, redistributor)
}

// repairOverlaps scans for maximal runs sharing the same collapsed interval
// and redistributes each run's shared span among its members by the
// redistributor's policy.
func repairOverlaps(raw []models.TimedSegment, redistributor OverlapRedistributor) []models.TimedSegment {
	out := make([]models.TimedSegment, 0, len(raw))
	i := 0
	for i < len(raw) {
		j := i
		for j+1 < len(raw) && raw[j+1].StartS == raw[i].StartS && raw[j+1].EndS == raw[i].EndS {
			j++
		}
		if j == i {
			out = append(out, raw[i])
			i++
			continue
		}

		texts := make([]string, j-i+1)
		for k := i; k <= j; k++ {
			texts[k-i] = raw[k].Text
		}
		out = append(out, redistributor.Redistribute(texts, raw[i].StartS, raw[i].EndS)...)
		i = j + 1
	}
	return out
}

// finalizeAlignment enforces the post-conditions: no overlaps, first start
// clamped to 0, last end clamped to origDurationS, with warnings logged for
// large gaps or residual overlaps.
func finalizeAlignment(aligned []models.TimedSegment, origDurationS float64) []models.TimedSegment {
	if len(aligned) == 0 {
		return aligned
	}

	if aligned[0].StartS < 0 {
		aligned[0].StartS = 0
	}

	for i := 1; i < len(aligned); i++ {
		gap := aligned[i].StartS - aligned[i-1].EndS
		if gap < 0 {
			logger.Warn("aligner: residual overlap after repair", "index", i, "overlap_s", -gap)
			aligned[i].StartS = aligned[i-1].EndS
			if aligned[i].EndS < aligned[i].StartS {
				aligned[i].EndS = aligned[i].StartS
			}
		} else if gap > maxAcceptableGapS {
			logger.Warn("aligner: large gap between segments", "index", i, "gap_s", gap)
		}
	}

	last := len(aligned) - 1
	if aligned[last].EndS > origDurationS {
		aligned[last].EndS = origDurationS
		if aligned[last].EndS < aligned[last].StartS {
			aligned[last].StartS = aligned[last].EndS
		}
	}

	return aligned
}
