package assist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaraujo/converso/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(config.AssistantConfig{
		BaseURL:      srv.URL,
		CommandPath:  "/assistant/process",
		UploadPath:   "/assistant/process/upload",
		FeedbackPath: "/feedback/",
	})
	return c, srv
}

func TestSubmitTextSuccess(t *testing.T) {
	var gotBody map[string]string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/assistant/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": "R", "actions": {"Play": "http://x"}}`)
	}))
	defer srv.Close()

	env, err := c.SubmitText(context.Background(), "ligar a luz", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "ligar a luz", gotBody["text_input"])
	assert.Equal(t, "pt-BR", gotBody["lang"])
	assert.Equal(t, "R", env.ResponseText)
	assert.Equal(t, []Action{{Label: "Play", URL: "http://x"}}, env.Actions)
}

func TestSubmitTextTransportFailure(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stack trace with internals", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := c.SubmitText(context.Background(), "oi", "pt-BR")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	// Diagnostic detail goes to logs only, never into the classified error.
	assert.NotContains(t, err.Error(), "stack trace")
}

func TestSubmitTextNetworkError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // force a connection error

	_, err := c.SubmitText(context.Background(), "oi", "pt-BR")
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestSubmitTextUndecodableBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	_, err := c.SubmitText(context.Background(), "oi", "pt-BR")
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestSubmitAudioMultipart(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/assistant/process/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "pt-BR", r.FormValue("lang"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "capture.ogg", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)

		io.WriteString(w, `{"input": "ligar a luz", "response": "ok", "audio": "static/reply.wav"}`)
	}))
	defer srv.Close()

	env, err := c.SubmitAudio(context.Background(), []byte{1, 2, 3}, "audio/ogg", "pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "ligar a luz", env.Input)
	assert.Equal(t, srv.URL+"/static/reply.wav", env.AudioRef, "relative refs resolve against the base URL")
}

func TestAbsoluteAudioRefPassesThrough(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response": "ok", "audio": "https://cdn.example/reply.wav"}`)
	}))
	defer srv.Close()

	env, err := c.SubmitText(context.Background(), "oi", "pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/reply.wav", env.AudioRef)
}

func TestFetchAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFdata"))
	}))
	defer srv.Close()

	c := New(config.AssistantConfig{BaseURL: srv.URL})
	data, ct, err := c.FetchAudio(context.Background(), srv.URL+"/reply.wav")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", ct)
	assert.Equal(t, []byte("RIFFdata"), data)
}

func TestExtFromContentType(t *testing.T) {
	cases := map[string]string{
		"audio/wav":             ".wav",
		"audio/ogg;codecs=opus": ".ogg",
		"audio/webm":            ".webm",
		"audio/mpeg":            ".mp3",
		"audio/flac":            ".flac",
		"":                      ".wav",
	}
	for ct, want := range cases {
		assert.Equal(t, want, extFromContentType(ct), "content type %q", ct)
	}
}
