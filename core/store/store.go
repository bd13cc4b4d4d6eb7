// Package store persists the most recent interview submission to disk
// so the feedback viewer can pick it up after the session ends.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Submission is the saved record of one finished interview: the code
// under review, the assembled answers, and the feedback once attached.
type Submission struct {
	SessionID string    `json:"session_id"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	Answers   []Answer  `json:"answers"`
	Feedback  string    `json:"feedback,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// Answer pairs a question with the transcript submitted for it.
type Answer struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}

// Store reads and writes the single last-submission record.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the submission, stamping SavedAt. The write goes through
// a temp file and rename so a crash never leaves a truncated record.
func (s *Store) Save(submission Submission) error {
	submission.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create submission directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "submission-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp submission file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write submission: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close submission file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace submission file: %w", err)
	}
	return nil
}

// Load returns the last saved submission, or ok=false when none exists.
func (s *Store) Load() (Submission, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Submission{}, false, nil
	}
	if err != nil {
		return Submission{}, false, fmt.Errorf("failed to read submission: %w", err)
	}

	var submission Submission
	if err := json.Unmarshal(data, &submission); err != nil {
		return Submission{}, false, fmt.Errorf("failed to decode submission: %w", err)
	}
	return submission, true, nil
}

// AttachFeedback loads the saved submission, fills its feedback slot if
// still empty, and writes it back.
func (s *Store) AttachFeedback(feedback string) error {
	submission, ok, err := s.Load()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no submission to attach feedback to")
	}
	if submission.Feedback != "" {
		return nil
	}
	submission.Feedback = feedback
	return s.Save(submission)
}
