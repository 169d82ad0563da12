// Package ui renders conversation output for the terminal. Rendering is
// pure string production: the caller decides where the strings go.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
)

const defaultWidth = 80

// Renderer turns orchestrator output into styled terminal lines. The text
// direction of the active language decides line alignment.
type Renderer struct {
	width int

	userLabel      lipgloss.Style
	assistantLabel lipgloss.Style
	errorLabel     lipgloss.Style
	status         lipgloss.Style
	actionsTitle   lipgloss.Style
	actionItem     lipgloss.Style
	muted          lipgloss.Style
}

// NewRenderer builds a renderer for the given terminal width. Zero or
// negative widths fall back to a default.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Renderer{
		width:          width,
		userLabel:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		assistantLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		errorLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		status:         lipgloss.NewStyle().Faint(true).Italic(true),
		actionsTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		actionItem:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		muted:          lipgloss.NewStyle().Faint(true),
	}
}

// align wraps content in a width-constrained block aligned for the
// language's text direction.
func (r *Renderer) align(ctx i18n.Context, content string) string {
	pos := lipgloss.Left
	if ctx.Direction == i18n.RightToLeft {
		pos = lipgloss.Right
	}
	return lipgloss.NewStyle().Width(r.width).Align(pos).Render(content)
}

// roleLabel resolves the localized speaker label and its style for a role.
func (r *Renderer) roleLabel(ctx i18n.Context, role conversation.Role) string {
	switch role {
	case conversation.RoleAssistant:
		return r.assistantLabel.Render(ctx.T("label.assistant"))
	case conversation.RoleError:
		return r.errorLabel.Render(ctx.T("label.error"))
	default:
		return r.userLabel.Render(ctx.T("label.you"))
	}
}

// Exchange renders one conversation entry as a single aligned line.
func (r *Renderer) Exchange(ctx i18n.Context, ex conversation.Exchange) string {
	line := r.roleLabel(ctx, ex.Role) + ": " + ex.Text
	if ctx.Direction == i18n.RightToLeft {
		line = ex.Text + " :" + r.roleLabel(ctx, ex.Role)
	}
	return r.align(ctx, line)
}

// Status renders a transient status line.
func (r *Renderer) Status(ctx i18n.Context, text string) string {
	return r.align(ctx, r.status.Render(text))
}

// Actions renders the follow-up action list of a reply.
func (r *Renderer) Actions(ctx i18n.Context, actions []assist.Action) string {
	if len(actions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.align(ctx, r.actionsTitle.Render(ctx.T("actions.title"))))
	for _, a := range actions {
		item := r.actionItem.Render(a.Label) + " " + r.muted.Render("("+a.URL+")")
		b.WriteString("\n")
		b.WriteString(r.align(ctx, item))
	}
	return b.String()
}

// Prompt renders the localized input placeholder.
func (r *Renderer) Prompt(ctx i18n.Context) string {
	return r.muted.Render(ctx.T("prompt.placeholder"))
}

// History renders the full conversation, or the localized empty notice.
func (r *Renderer) History(ctx i18n.Context, history []conversation.Exchange) string {
	if len(history) == 0 {
		return r.align(ctx, r.muted.Render(ctx.T("history.empty")))
	}
	lines := make([]string, 0, len(history))
	for _, ex := range history {
		lines = append(lines, r.Exchange(ctx, ex))
	}
	return strings.Join(lines, "\n")
}
