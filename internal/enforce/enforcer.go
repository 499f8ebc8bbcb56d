package enforce

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chatguard/bot-app/internal/chatio"
	"github.com/chatguard/bot-app/internal/events"
	"github.com/chatguard/bot-app/internal/metrics"
	"github.com/chatguard/bot-app/internal/phrase"
)

// Offense describes one message that matched a deny-list.
type Offense struct {
	Msg      chatio.Message
	Category phrase.Category
	Phrase   string
}

// Outcome reports which halves of enforcement succeeded.
type Outcome struct {
	Banned  bool
	Deleted bool
}

// Handled reports whether both the ban and the delete succeeded.
func (o Outcome) Handled() bool { return o.Banned && o.Deleted }

// Enforcer bans offenders and deletes their messages through the chat
// platform, then records the outcome. ledger and publisher may be nil.
type Enforcer struct {
	actions   chatio.ChatActions
	ledger    *Ledger
	publisher *events.Publisher
}

// NewEnforcer creates an enforcer over the given chat actions. A nil ledger
// or publisher disables that piece of bookkeeping.
func NewEnforcer(actions chatio.ChatActions, ledger *Ledger, publisher *events.Publisher) *Enforcer {
	return &Enforcer{actions: actions, ledger: ledger, publisher: publisher}
}

// Enforce bans the sender, then deletes the message. Both actions are always
// attempted: a failed ban does not spare the message and vice versa. Neither
// action is retried. The outcome is logged, recorded in the ledger, and
// published as an enforcement event.
func (e *Enforcer) Enforce(ctx context.Context, off Offense) Outcome {
	msg := off.Msg

	banned := e.actions.BanUser(ctx, msg.ChatID, msg.UserID)
	if !banned {
		log.Printf("[enforce] ban failed: chat=%d user=%d", msg.ChatID, msg.UserID)
	}

	deleted := e.actions.DeleteMessage(ctx, chatio.MessageRef{ChatID: msg.ChatID, MessageID: msg.MessageID})
	if !deleted {
		log.Printf("[enforce] delete failed: chat=%d message=%d", msg.ChatID, msg.MessageID)
	}

	outcome := Outcome{Banned: banned, Deleted: deleted}
	if outcome.Handled() {
		log.Printf("[enforce] handled: chat=%d user=%d message=%d category=%s phrase=%q",
			msg.ChatID, msg.UserID, msg.MessageID, off.Category, off.Phrase)
		metrics.EnforcementsTotal.WithLabelValues("handled").Inc()
	} else {
		log.Printf("[enforce] partially handled: chat=%d user=%d message=%d banned=%v deleted=%v",
			msg.ChatID, msg.UserID, msg.MessageID, banned, deleted)
		metrics.EnforcementsTotal.WithLabelValues("partial").Inc()
	}

	event := events.EnforcementEvent{
		EventID:   uuid.New().String(),
		ChatID:    msg.ChatID,
		UserID:    msg.UserID,
		Username:  msg.Username,
		MessageID: msg.MessageID,
		Category:  off.Category,
		Phrase:    off.Phrase,
		Banned:    banned,
		Deleted:   deleted,
		Ts:        time.Now().Unix(),
	}

	if count, err := e.ledger.Record(ctx, event); err != nil {
		log.Printf("[enforce] ledger record: %v", err)
	} else if count > 1 {
		log.Printf("[enforce] repeat offender: chat=%d user=%d offenses=%d", msg.ChatID, msg.UserID, count)
	}

	if err := e.publisher.Publish(event); err != nil {
		log.Printf("[enforce] publish event: %v", err)
	}

	return outcome
}
