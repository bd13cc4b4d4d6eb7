// Package cli defines the Cobra commands for the interview client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // set via ldflags at build time

var rootCmd = &cobra.Command{
	Use:   "surveycode",
	Short: "Voice interview client for reviewing your code submissions",
	Long: `SurveyCode runs a spoken follow-up interview about the code you just
submitted: it reads each question aloud, records and transcribes your
answer, and collects reviewer feedback at the end.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runInterview,
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
}
