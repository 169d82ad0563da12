package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
)

func TestExchangeCarriesLocalizedLabel(t *testing.T) {
	r := NewRenderer(40)
	ctx := i18n.NewContext(i18n.PortugueseBR)

	out := r.Exchange(ctx, conversation.Exchange{Role: conversation.RoleUser, Text: "oi"})
	assert.Contains(t, out, "Você")
	assert.Contains(t, out, "oi")

	out = r.Exchange(ctx, conversation.Exchange{Role: conversation.RoleError, Text: "falhou"})
	assert.Contains(t, out, "Erro")
}

func TestRightToLeftAlignsRight(t *testing.T) {
	r := NewRenderer(40)
	ltr := i18n.NewContext(i18n.EnglishUS)
	rtl := i18n.NewContext(i18n.ArabicSA)

	ex := conversation.Exchange{Role: conversation.RoleAssistant, Text: "hi"}

	left := r.Exchange(ltr, ex)
	right := r.Exchange(rtl, ex)

	assert.False(t, strings.HasPrefix(left, " "))
	assert.True(t, strings.HasPrefix(right, " "))
}

func TestActionsListsEveryLabel(t *testing.T) {
	r := NewRenderer(60)
	ctx := i18n.NewContext(i18n.EnglishUS)

	out := r.Actions(ctx, []assist.Action{
		{Label: "Open panel", URL: "https://example.com/panel"},
		{Label: "Retry", URL: "#"},
	})
	assert.Contains(t, out, "Suggested actions")
	assert.Contains(t, out, "Open panel")
	assert.Contains(t, out, "Retry")

	assert.Empty(t, r.Actions(ctx, nil))
}

func TestHistoryEmptyNotice(t *testing.T) {
	r := NewRenderer(40)
	ctx := i18n.NewContext(i18n.PortugueseBR)

	out := r.History(ctx, nil)
	assert.Contains(t, out, i18n.Resolve(i18n.PortugueseBR, "history.empty"))

	out = r.History(ctx, []conversation.Exchange{
		{Role: conversation.RoleUser, Text: "primeira"},
		{Role: conversation.RoleAssistant, Text: "segunda"},
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "primeira")
	assert.Contains(t, lines[1], "segunda")
}

func TestZeroWidthFallsBack(t *testing.T) {
	r := NewRenderer(0)
	assert.Equal(t, defaultWidth, r.width)
}
