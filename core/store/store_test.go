package store

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "submission.json"))

	_, ok, err := s.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing file")
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "submission.json"))

	saved := Submission{
		SessionID: "abc-123",
		Code:      "def solve():\n    pass",
		Language:  "python",
		Answers: []Answer{
			{QuestionNumber: 1, Question: "What does solve do?", Answer: "Nothing yet."},
		},
	}
	if err := s.Save(saved); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}

	loaded, ok, err := s.Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if !ok {
		t.Fatal("expected a saved submission")
	}
	if loaded.SessionID != saved.SessionID || loaded.Code != saved.Code {
		t.Fatalf("expected saved fields to roundtrip, got %+v", loaded)
	}
	if len(loaded.Answers) != 1 || loaded.Answers[0].Question != saved.Answers[0].Question {
		t.Fatalf("expected answers to roundtrip, got %+v", loaded.Answers)
	}
	if loaded.SavedAt.IsZero() {
		t.Fatal("expected SavedAt to be stamped on save")
	}
}

func TestAttachFeedback(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "submission.json"))

	if err := s.AttachFeedback("anything"); err == nil {
		t.Fatal("expected error attaching feedback with no submission")
	}

	if err := s.Save(Submission{SessionID: "abc"}); err != nil {
		t.Fatalf("expected save to succeed, got %v", err)
	}
	if err := s.AttachFeedback("good structure"); err != nil {
		t.Fatalf("expected attach to succeed, got %v", err)
	}
	if err := s.AttachFeedback("overwritten"); err != nil {
		t.Fatalf("expected second attach to be a no-op, got %v", err)
	}

	loaded, _, err := s.Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if loaded.Feedback != "good structure" {
		t.Fatalf("expected first feedback to survive, got %q", loaded.Feedback)
	}
}
