package review

import (
	"strings"
	"testing"
)

func TestSegmentCodeNoBoundaries(t *testing.T) {
	code := "x = 1\ny = 2\nprint(x + y)"

	segments := SegmentCode(code)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].StartLine != 1 || segments[0].EndLine != 3 {
		t.Fatalf("expected segment to span lines 1-3, got %d-%d", segments[0].StartLine, segments[0].EndLine)
	}
	if segments[0].Code != code {
		t.Fatalf("expected whole file as segment code, got %q", segments[0].Code)
	}
}

func TestSegmentCodeSplitsOnDefinitions(t *testing.T) {
	code := strings.Join([]string{
		"import math",
		"",
		"",
		"def first(x):",
		"    return x * 2",
		"",
		"def second(y):",
		"    return y + 1",
		"",
	}, "\n")

	segments := SegmentCode(code)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[1].StartLine != 4 {
		t.Fatalf("expected second segment to start at line 4, got %d", segments[1].StartLine)
	}
	if !strings.HasPrefix(segments[1].Code, "def first") {
		t.Fatalf("expected second segment to open with def first, got %q", segments[1].Code)
	}
}

func TestSegmentCodeMergesShortSegments(t *testing.T) {
	code := strings.Join([]string{
		"class Helper:",
		"    pass",
		"class Other:",
		"    def run(self):",
		"        return 1",
	}, "\n")

	segments := SegmentCode(code)
	if len(segments) != 2 {
		t.Fatalf("expected short leading class to stand alone and the rest merged, got %d segments", len(segments))
	}
	if segments[1].StartLine != 3 || segments[1].EndLine != 5 {
		t.Fatalf("expected second segment to span lines 3-5, got %d-%d", segments[1].StartLine, segments[1].EndLine)
	}
}

func TestSegmentCodeJavaModifiers(t *testing.T) {
	code := strings.Join([]string{
		"public class Solution {",
		"    int count;",
		"    int total;",
		"    private int helper(int x) {",
		"        return x;",
		"    }",
		"}",
	}, "\n")

	segments := SegmentCode(code)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[1].StartLine != 4 {
		t.Fatalf("expected helper segment to start at line 4, got %d", segments[1].StartLine)
	}
}

func TestArtifactFeedbackAttachOnce(t *testing.T) {
	artifact := NewArtifact("print(1)", "python")

	if _, ok := artifact.Feedback(); ok {
		t.Fatal("expected new artifact to have no feedback")
	}
	if !artifact.AttachFeedback("solid solution") {
		t.Fatal("expected first attachment to succeed")
	}
	if artifact.AttachFeedback("rewritten") {
		t.Fatal("expected second attachment to be refused")
	}
	feedback, ok := artifact.Feedback()
	if !ok || feedback != "solid solution" {
		t.Fatalf("expected original feedback to survive, got %q (ok=%v)", feedback, ok)
	}
}
