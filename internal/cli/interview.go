package cli

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	interview "github.com/VanBaNguyen/SurveyCode/core"
	"github.com/VanBaNguyen/SurveyCode/core/api"
	"github.com/VanBaNguyen/SurveyCode/core/audio/miniaudio"
	"github.com/VanBaNguyen/SurveyCode/core/audio/portaudio"
	"github.com/VanBaNguyen/SurveyCode/core/channel"
	"github.com/VanBaNguyen/SurveyCode/core/events"
	"github.com/VanBaNguyen/SurveyCode/core/review"
	"github.com/VanBaNguyen/SurveyCode/core/store"
	"github.com/VanBaNguyen/SurveyCode/internal/config"
	"github.com/VanBaNguyen/SurveyCode/internal/tui"
)

func runInterview(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.Server.BaseURL,
		api.WithTimeout(time.Duration(cfg.Server.TimeoutSec)*time.Second),
	)
	submissions := store.New(cfg.Session.SubmissionPath)

	opts := []interview.ControllerOption{
		interview.WithSubmissionStore(submissions),
		interview.WithTotalTurns(cfg.Session.Questions),
		interview.WithChannelDialer(func(ctx context.Context, sessionID string, onEvent func(events.Event)) (interview.SessionChannel, error) {
			return channel.Dial(ctx, cfg.Server.ChannelURL, sessionID, onEvent)
		}),
	}

	// The controller owns the devices once wired and closes them on
	// teardown.
	devices, err := openAudioDevices(cfg.Audio.Backend)
	if err != nil {
		// A missing microphone downgrades to manual submit, it does not
		// block the interview.
		fmt.Fprintf(os.Stderr, "audio unavailable: %v\n", err)
	}
	opts = append(opts, devices...)

	controller := interview.NewController(client, opts...)
	defer controller.Close()

	program := tea.NewProgram(tui.NewModel(controller, cfg.Session.Questions), tea.WithAltScreen())

	var artifactMu sync.Mutex
	var artifact *review.Artifact
	runOpts := tui.Callbacks(program, func(a *review.Artifact) {
		artifactMu.Lock()
		artifact = a
		artifactMu.Unlock()
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := controller.Run(ctx, runOpts...); err != nil {
		return err
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running interview ui: %w", err)
	}

	artifactMu.Lock()
	defer artifactMu.Unlock()
	if artifact != nil {
		segments := review.SegmentCode(artifact.Code)
		printFeedback(os.Stdout, artifact, segments, segmentNotes(ctx, client, artifact, segments))
	}
	return nil
}

// openAudioDevices opens the configured backend and returns controller
// options for its input and output sides.
func openAudioDevices(backend string) ([]interview.ControllerOption, error) {
	switch backend {
	case "none":
		return nil, nil
	case "portaudio":
		client, err := portaudio.NewClient(0)
		if err != nil {
			return nil, fmt.Errorf("opening portaudio devices: %w", err)
		}
		return []interview.ControllerOption{
			interview.WithAudioInput(client),
			interview.WithAudioOutput(client),
		}, nil
	case "miniaudio", "":
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, fmt.Errorf("opening miniaudio devices: %w", err)
		}
		return []interview.ControllerOption{
			interview.WithAudioInput(client),
			interview.WithAudioOutput(client),
		}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}
