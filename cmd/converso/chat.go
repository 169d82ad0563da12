package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmaraujo/converso/internal/orchestrator"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive session with the assistant.

Type a command and press enter, or use the slash commands:

  /voice          start a voice capture
  /stop           stop a running capture early
  /lang <code>    switch the session language
  /history        show the conversation so far
  /quit           leave the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		// Render notices as they arrive, independent of the input loop.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case n := <-app.orch.Notices():
					renderNotice(app, n)
				}
			}
		}()

		uiCtx := app.orch.UIContext()
		fmt.Println(app.render.Prompt(uiCtx))

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				continue
			case line == "/quit", line == "/exit":
				return nil
			case line == "/voice":
				if err := app.orch.ActivateCapture(ctx); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			case line == "/stop":
				if err := app.orch.StopCapture(ctx); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			case line == "/history":
				fmt.Println(app.render.History(app.orch.UIContext(), app.orch.History()))
			case strings.HasPrefix(line, "/lang "):
				code := strings.TrimSpace(strings.TrimPrefix(line, "/lang "))
				if err := app.orch.SetLanguage(ctx, code); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			case strings.HasPrefix(line, "/"):
				fmt.Fprintf(os.Stderr, "unknown command %s\n", line)
			default:
				// Errors are already rendered as conversation entries.
				_ = app.orch.SubmitTyped(ctx, line)
			}

			if ctx.Err() != nil {
				return nil
			}
		}
		return scanner.Err()
	},
}

// renderNotice prints one orchestrator notification.
func renderNotice(app *app, n orchestrator.Notice) {
	uiCtx := app.orch.UIContext()
	switch n.Kind {
	case orchestrator.NoticeStatus:
		fmt.Println(app.render.Status(uiCtx, n.Status))
	case orchestrator.NoticeExchange:
		if n.Exchange != nil {
			fmt.Println(app.render.Exchange(uiCtx, *n.Exchange))
		}
	case orchestrator.NoticeActions:
		fmt.Println(app.render.Actions(uiCtx, n.Actions))
	case orchestrator.NoticeLanguage:
		fmt.Println(app.render.Prompt(n.UI))
	case orchestrator.NoticeCaptured:
		// The local recording copy is transient; nothing to show in a
		// terminal session.
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
