// Package audit provides PostgreSQL-backed storage for enforcement events.
// The auditor service writes one row per enforcement attempt so moderators
// can review what was removed, from whom, and which deny-list entry fired.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chatguard/bot-app/internal/events"
	"github.com/chatguard/bot-app/internal/phrase"
)

// validCategories mirrors the CHECK constraint on enforcement_events.
var validCategories = map[phrase.Category]bool{
	phrase.CategoryText:  true,
	phrase.CategoryImage: true,
}

// Store manages enforcement-event rows in PostgreSQL.
type Store struct {
	db *sql.DB
}

// NewStore creates a store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert persists one enforcement event. The category is validated against
// the allowed set before insertion; duplicate event IDs are ignored so NATS
// redeliveries do not double-count.
func (s *Store) Insert(ctx context.Context, event events.EnforcementEvent) error {
	if !validCategories[event.Category] {
		return fmt.Errorf("audit: invalid category %q", event.Category)
	}

	const query = `
		INSERT INTO enforcement_events
			(event_id, chat_id, user_id, username, message_id, category, phrase, banned, deleted, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, to_timestamp($10))
		ON CONFLICT (event_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		event.EventID,
		event.ChatID,
		event.UserID,
		event.Username,
		event.MessageID,
		string(event.Category),
		event.Phrase,
		event.Banned,
		event.Deleted,
		event.Ts,
	)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// CountRecent returns how many enforcement events were recorded against a
// user in a chat within the given window. Useful when reviewing whether a
// ban actually stuck.
func (s *Store) CountRecent(ctx context.Context, chatID, userID int64, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM enforcement_events
		WHERE chat_id = $1
		  AND user_id = $2
		  AND occurred_at >= NOW() - $3::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, chatID, userID, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("audit: count recent: %w", err)
	}
	return count, nil
}

// CountPartial returns how many enforcement attempts in the window left the
// offense only partially handled (ban or delete failed).
func (s *Store) CountPartial(ctx context.Context, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM enforcement_events
		WHERE (NOT banned OR NOT deleted)
		  AND occurred_at >= NOW() - $1::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("audit: count partial: %w", err)
	}
	return count, nil
}
