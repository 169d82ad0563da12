package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmaraujo/converso/internal/orchestrator"
)

var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send one typed command and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		before := len(app.orch.History())
		text := strings.Join(args, " ")

		// The error, if any, is already recorded as a conversation entry;
		// the printed tail shows it.
		submitErr := app.orch.SubmitTyped(ctx, text)

		uiCtx := app.orch.UIContext()
		for _, ex := range app.orch.History()[before:] {
			fmt.Println(app.render.Exchange(uiCtx, ex))
		}
		drainActions(app)
		return submitErr
	},
}

// drainActions prints any action notice already queued for this exchange.
func drainActions(app *app) {
	for {
		select {
		case n := <-app.orch.Notices():
			if n.Kind == orchestrator.NoticeActions {
				fmt.Println(app.render.Actions(app.orch.UIContext(), n.Actions))
			}
		default:
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
