package assist

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeActionsMapping(t *testing.T) {
	got, err := normalizeActions(json.RawMessage(`{"Play": "http://x"}`))
	require.NoError(t, err)
	assert.Equal(t, []Action{{Label: "Play", URL: "http://x"}}, got)
}

func TestNormalizeActionsMappingSortsLabels(t *testing.T) {
	got, err := normalizeActions(json.RawMessage(`{"b": "2", "a": "1", "c": "3"}`))
	require.NoError(t, err)
	assert.Equal(t, []Action{
		{Label: "a", URL: "1"},
		{Label: "b", URL: "2"},
		{Label: "c", URL: "3"},
	}, got)
}

func TestNormalizeActionsList(t *testing.T) {
	got, err := normalizeActions(json.RawMessage(
		`[{"label": "Abrir", "url": "http://a"}, {"label": "Tocar"}]`))
	require.NoError(t, err)
	assert.Equal(t, []Action{
		{Label: "Abrir", URL: "http://a"},
		{Label: "Tocar", URL: "#"},
	}, got)
}

func TestNormalizeActionsDropsEmptyLabels(t *testing.T) {
	got, err := normalizeActions(json.RawMessage(`[{"label": "  ", "url": "http://a"}]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizeActionsAbsent(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		got, err := normalizeActions(json.RawMessage(raw))
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestNormalizeActionsRejectsOtherShapes(t *testing.T) {
	_, err := normalizeActions(json.RawMessage(`42`))
	assert.Error(t, err)
}

func TestDecodeEnvelopeDefaults(t *testing.T) {
	env, err := decodeEnvelope(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, env.ResponseText)
	assert.Empty(t, env.AudioRef)
	assert.Nil(t, env.Actions)
}

func TestResolveAudioRefTrimsRelativePrefixes(t *testing.T) {
	env := &Envelope{AudioRef: "./static/reply.wav"}
	env.resolveAudioRef("http://api.local/")
	assert.Equal(t, "http://api.local/static/reply.wav", env.AudioRef)
}
