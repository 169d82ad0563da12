package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
	"github.com/dmaraujo/converso/internal/storage"
	"github.com/dmaraujo/converso/internal/ui"
)

var (
	exportFormat string
	exportOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the recorded conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := openHistory()
		if err != nil {
			return err
		}
		defer closeLog()

		render := ui.NewRenderer(0)
		uiCtx := i18n.NewContext(i18n.Normalize(cfg.UI.Language))
		fmt.Println(render.History(uiCtx, log.All()))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation to a file or stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := openHistory()
		if err != nil {
			return err
		}
		defer closeLog()

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		return conversation.Export(out, exportFormat, log.All())
	},
}

// openHistory opens the storage-backed conversation log read side.
func openHistory() (*conversation.Log, func(), error) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	log, err := conversation.Open(store, cfg.Storage.Namespace)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("opening conversation log: %w", err)
	}
	return log, func() { store.Close() }, nil
}

func init() {
	historyExportCmd.Flags().StringVar(&exportFormat, "format", conversation.FormatJSON, "export format (json, yaml, md)")
	historyExportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default stdout)")
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
