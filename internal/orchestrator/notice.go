package orchestrator

import (
	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
)

// NoticeKind discriminates UI notification payloads.
type NoticeKind int

const (
	// NoticeStatus carries a localized status line.
	NoticeStatus NoticeKind = iota + 1
	// NoticeExchange carries a newly appended conversation entry.
	NoticeExchange
	// NoticeActions carries clickable follow-up actions from a reply.
	NoticeActions
	// NoticeCaptured points at the local copy of a finished recording.
	NoticeCaptured
	// NoticeLanguage signals a presentation context change.
	NoticeLanguage
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeStatus:
		return "status"
	case NoticeExchange:
		return "exchange"
	case NoticeActions:
		return "actions"
	case NoticeCaptured:
		return "captured"
	case NoticeLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// Notice is a one-way notification from the orchestrator to the UI. Only
// the fields relevant to Kind are set.
type Notice struct {
	Kind     NoticeKind
	Status   string
	Exchange *conversation.Exchange
	Actions  []assist.Action
	LocalRef string
	UI       i18n.Context
}
