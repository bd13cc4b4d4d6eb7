package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/VanBaNguyen/SurveyCode/core/api"
	"github.com/VanBaNguyen/SurveyCode/core/review"
	"github.com/VanBaNguyen/SurveyCode/core/store"
	"github.com/VanBaNguyen/SurveyCode/internal/config"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Show the feedback for your last interview",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		cfg, err := config.ReadConfig(dir)
		if err != nil {
			return err
		}

		submission, ok, err := store.New(cfg.Session.SubmissionPath).Load()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no saved interview found, run an interview first")
		}

		artifact := review.NewArtifact(submission.Code, submission.Language)
		if submission.Feedback != "" {
			artifact.AttachFeedback(submission.Feedback)
		}

		segments := review.SegmentCode(artifact.Code)
		client := api.NewClient(cfg.Server.BaseURL,
			api.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
		)
		notes := segmentNotes(cmd.Context(), client, artifact, segments)

		printFeedback(os.Stdout, artifact, segments, notes)
		return nil
	},
}

// segmentNotes fetches reviewer notes for each viewer segment. The
// server may be gone by the time feedback is replayed, so any fetch
// failure leaves that segment's note empty and the viewer falls back
// to a canned note.
func segmentNotes(ctx context.Context, client *api.Client, artifact *review.Artifact, segments []review.Segment) []string {
	notes := make([]string, len(segments))
	for i, segment := range segments {
		note, err := client.SegmentFeedback(ctx, segment.Code, artifact.Language, i, len(segments))
		if err != nil {
			return notes
		}
		notes[i] = note
	}
	return notes
}

// printFeedback renders the reviewed artifact: the overall feedback
// followed by the code split into viewer segments. notes carries a
// per-segment reviewer note and may be nil or hold empty entries.
func printFeedback(w io.Writer, artifact *review.Artifact, segments []review.Segment, notes []string) {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)
	codeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("#374151")).
		PaddingLeft(1)
	noteStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	fmt.Fprintln(w, headerStyle.Render("Interview feedback"))
	fmt.Fprintln(w)

	if feedback, ok := artifact.Feedback(); ok {
		fmt.Fprintln(w, noteStyle.Render(feedback))
	} else {
		fmt.Fprintln(w, dimStyle.Render("No reviewer feedback was available for this session."))
	}
	fmt.Fprintln(w)

	if artifact.Code == "" {
		return
	}

	for i, segment := range segments {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("Lines %d-%d", segment.StartLine, segment.EndLine)))
		fmt.Fprintln(w, codeStyle.Render(segment.Code))
		switch {
		case i < len(notes) && notes[i] != "":
			fmt.Fprintln(w, noteStyle.Render(notes[i]))
		default:
			fmt.Fprintln(w, dimStyle.Render(review.FallbackNote(i, len(segments))))
		}
		fmt.Fprintln(w)
	}
}
