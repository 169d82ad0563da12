package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/audio"
	"github.com/dmaraujo/converso/internal/capture"
	"github.com/dmaraujo/converso/internal/capture/recognizer"
	"github.com/dmaraujo/converso/internal/capture/recorder"
	"github.com/dmaraujo/converso/internal/config"
	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
	"github.com/dmaraujo/converso/internal/orchestrator"
	"github.com/dmaraujo/converso/internal/storage"
	"github.com/dmaraujo/converso/internal/ui"
)

var (
	cfgFile  string
	langFlag string
	cfg      *config.Config

	// version is set at build time via ldflags.
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "converso",
	Short:   "Voice-first assistant client",
	Long:    "Converso talks to a remote assistant backend by voice or text,\nkeeps a durable conversation history, and renders replies in the\nconfigured session language.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Local .env files are a development convenience; absence is fine.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		config.SetupLogging(cfg.Logging)

		if langFlag != "" {
			cfg.UI.Language = langFlag
		}
		return nil
	},
}

// Execute runs the root command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (e.g. configs/converso.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "session language (pt-BR, en-US, es-ES, ar-SA)")
	rootCmd.SetVersionTemplate("converso {{.Version}}\n")
}

// app bundles the wired client for the commands that need a live session.
type app struct {
	store  *storage.Store
	orch   *orchestrator.Orchestrator
	render *ui.Renderer
}

// newApp wires storage, the capture strategies, the assistant pipeline, and
// the orchestrator, then starts the orchestrator loop under ctx.
func newApp(ctx context.Context) (*app, error) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	log, err := conversation.Open(store, cfg.Storage.Namespace)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening conversation log: %w", err)
	}

	var device recorder.Device
	if cfg.Capture.Input == "portaudio" {
		device = &recorder.PortAudioDevice{}
	}
	selector := capture.NewSelector(
		recognizer.Factory{Endpoint: cfg.Recognizer.Endpoint},
		recorder.Factory{
			Device: device,
			Config: recorder.Config{
				MaxDuration: cfg.Capture.MaxDuration,
				SampleRate:  cfg.Capture.SampleRate,
				Channels:    cfg.Capture.Channels,
			},
		},
	)

	orch := orchestrator.New(orchestrator.Options{
		Pipeline:     assist.New(cfg.Assistant),
		Log:          log,
		Selector:     selector,
		Player:       audio.NewExecPlayer(cfg.Playback.Command),
		Language:     i18n.Normalize(cfg.UI.Language),
		FeedbackUser: cfg.Feedback.User,
	})
	go orch.Run(ctx)

	return &app{
		store:  store,
		orch:   orch,
		render: ui.NewRenderer(0),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
