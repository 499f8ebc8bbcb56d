// Package events defines the enforcement-event wire format and a NATS
// publisher for it. The bot publishes one event per enforcement attempt so
// passive observers (the auditor service, dashboards) can follow moderation
// activity without sitting in the message path.
package events

import "github.com/chatguard/bot-app/internal/phrase"

// NATS subjects for moderation events.
const (
	SubjectEnforced = "moderation.enforced"
	SubjectPartial  = "moderation.enforced.partial"
)

// EnforcementEvent records one enforcement attempt against an offending
// message.
type EnforcementEvent struct {
	EventID   string          `json:"event_id"`
	ChatID    int64           `json:"chat_id"`
	UserID    int64           `json:"user_id"`
	Username  string          `json:"username,omitempty"`
	MessageID int             `json:"message_id"`
	Category  phrase.Category `json:"category"`
	Phrase    string          `json:"phrase"`
	Banned    bool            `json:"banned"`
	Deleted   bool            `json:"deleted"`
	Ts        int64           `json:"ts"` // unix seconds
}

// Handled reports whether both enforcement halves succeeded.
func (e EnforcementEvent) Handled() bool {
	return e.Banned && e.Deleted
}

// Subject returns the NATS subject this event belongs on.
func (e EnforcementEvent) Subject() string {
	if e.Handled() {
		return SubjectEnforced
	}
	return SubjectPartial
}
