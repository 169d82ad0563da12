// Package assist implements the client side of the remote assistant's HTTP
// contract: text command submission, audio upload, and feedback submission.
//
// All three calls share one failure policy: a network error or a non-2xx
// status classifies as ErrTransport, with any diagnostic body text captured
// for logging only — callers render a localized generic message instead of
// raw transport detail.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmaraujo/converso/internal/config"
)

// Sentinel errors for failure classification.
var (
	// ErrTransport marks a network failure, a non-success status, or an
	// undecodable response body.
	ErrTransport = errors.New("assistant transport failure")

	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failure")
)

// maxDiagnosticBytes bounds how much of an error body is read for logs.
const maxDiagnosticBytes = 2048

// Client talks to the remote assistant endpoints.
type Client struct {
	baseURL     string
	commandURL  string
	uploadURL   string
	feedbackURL string
	apiKey      string
	client      *http.Client
}

// New creates an assistant client from config.
func New(cfg config.AssistantConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL:     base,
		commandURL:  base + cfg.CommandPath,
		uploadURL:   base + cfg.UploadPath,
		feedbackURL: base + cfg.FeedbackPath,
		apiKey:      cfg.APIKey,
		client:      &http.Client{},
	}
}

// SubmitText sends a typed command to the command endpoint.
func (c *Client) SubmitText(ctx context.Context, text, lang string) (*Envelope, error) {
	payload, err := json.Marshal(map[string]string{
		"text_input": text,
		"lang":       lang,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.commandURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating command request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "command")
}

// SubmitAudio sends a recorded audio payload to the upload endpoint as a
// multipart body with the language tag.
func (c *Client) SubmitAudio(ctx context.Context, audio []byte, contentType, lang string) (*Envelope, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "capture"+extFromContentType(contentType))
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return nil, fmt.Errorf("writing audio: %w", err)
	}
	_ = writer.WriteField("lang", lang)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "upload")
}

// do executes the request and parses the shared response envelope.
func (c *Client) do(req *http.Request, op string) (*Envelope, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("assistant request failed", "op", op, "error", err)
		return nil, fmt.Errorf("%w: %s request: %v", ErrTransport, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBytes))
		slog.Error("assistant returned error status",
			"op", op, "status", resp.StatusCode, "body", string(diag))
		return nil, fmt.Errorf("%w: %s status %d", ErrTransport, op, resp.StatusCode)
	}

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		slog.Error("assistant response undecodable", "op", op, "error", err)
		return nil, fmt.Errorf("%w: decoding %s response: %v", ErrTransport, op, err)
	}
	env.resolveAudioRef(c.baseURL)

	slog.Debug("assistant response",
		"op", op, "response_length", len(env.ResponseText),
		"actions", len(env.Actions), "has_audio", env.AudioRef != "")
	return env, nil
}

// FetchAudio downloads an assistant audio reference for local playback.
// It returns the audio bytes and their content type.
func (c *Client) FetchAudio(ctx context.Context, ref string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating audio request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: fetching audio: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: audio status %d", ErrTransport, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 25<<20))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading audio: %v", ErrTransport, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// extFromContentType maps an audio MIME type to a filename extension for the
// multipart upload.
func extFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "wav"):
		return ".wav"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mp3"), strings.Contains(ct, "mpeg"):
		return ".mp3"
	case strings.Contains(ct, "flac"):
		return ".flac"
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "m4a"):
		return ".m4a"
	default:
		return ".wav"
	}
}
