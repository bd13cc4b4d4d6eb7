package review

import (
	"fmt"
	"regexp"
	"strings"
)

// Segment is a contiguous run of source lines presented as one unit in
// the feedback viewer. Line numbers are 1-based and inclusive.
type Segment struct {
	StartLine int
	EndLine   int
	Code      string
}

// Boundary detection is intentionally shallow: top-level definition
// keywords for the handful of languages the interviews use. Anything
// else stays attached to the preceding segment.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^def\s+`),
	regexp.MustCompile(`^class\s+`),
	regexp.MustCompile(`^function\b`),
	regexp.MustCompile(`^(public|private|protected)\s+(static\s+)?\w+`),
}

const minSegmentLines = 3

func isBoundary(line string) bool {
	for _, pattern := range boundaryPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

// SegmentCode splits code into viewer segments. A new segment opens at
// every boundary line; segments shorter than minSegmentLines are folded
// into the previous one. Code with no boundaries yields a single
// segment spanning the whole file.
func SegmentCode(code string) []Segment {
	lines := strings.Split(code, "\n")

	var starts []int
	for i, line := range lines {
		if isBoundary(line) {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 || starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	var segments []Segment
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		seg := Segment{
			StartLine: start + 1,
			EndLine:   end,
			Code:      strings.Join(lines[start:end], "\n"),
		}
		if end-start < minSegmentLines && len(segments) > 0 {
			prev := &segments[len(segments)-1]
			prev.EndLine = seg.EndLine
			prev.Code = prev.Code + "\n" + seg.Code
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// FallbackNote is the note shown for a segment when no per-segment
// feedback could be fetched.
func FallbackNote(index, total int) string {
	return fmt.Sprintf("No detailed feedback available for section %d of %d.", index+1, total)
}
