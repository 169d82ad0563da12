package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Feedback is one rating+comment submission. It exists only for the
// duration of the attempt; nothing is retained locally on success.
type Feedback struct {
	User     string `json:"user"`
	Message  string `json:"message"`
	Rating   int    `json:"rating"`
	Language string `json:"lang"`
}

// SubmitFeedback validates and posts a feedback submission.
//
// An empty or whitespace-only message is rejected locally with
// ErrValidation before any network call. The rating is clamped to [0, 5].
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	fb.Message = strings.TrimSpace(fb.Message)
	if fb.Message == "" {
		return fmt.Errorf("%w: empty feedback message", ErrValidation)
	}
	if fb.Rating < 0 {
		fb.Rating = 0
	}
	if fb.Rating > 5 {
		fb.Rating = 5
	}

	payload, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("marshalling feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.feedbackURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("feedback request failed", "error", err)
		return fmt.Errorf("%w: feedback request: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBytes))
		slog.Error("feedback returned error status", "status", resp.StatusCode, "body", string(diag))
		return fmt.Errorf("%w: feedback status %d", ErrTransport, resp.StatusCode)
	}

	var status struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil && err != io.EOF {
		// The body is advisory; a missing or malformed status is not a failure.
		slog.Debug("feedback status body undecodable", "error", err)
	}
	slog.Info("feedback submitted", "user", fb.User, "rating", fb.Rating, "status", status.Status)
	return nil
}
