package main

import (
	"github.com/spf13/cobra"

	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/i18n"
)

var (
	feedbackMessage string
	feedbackRating  int
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send a rating and comment about the assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := assist.New(cfg.Assistant)
		return client.SubmitFeedback(cmd.Context(), assist.Feedback{
			User:     cfg.Feedback.User,
			Message:  feedbackMessage,
			Rating:   feedbackRating,
			Language: i18n.LocaleTag(i18n.Normalize(cfg.UI.Language)),
		})
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackMessage, "message", "", "feedback text")
	feedbackCmd.Flags().IntVar(&feedbackRating, "rating", 3, "rating from 0 to 5")
	rootCmd.AddCommand(feedbackCmd)
}
