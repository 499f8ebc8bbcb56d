// Package enforce executes moderation enforcement: banning the sender and
// deleting the offending message, with best-effort bookkeeping in a Redis
// offense ledger and an enforcement event published to NATS. Bookkeeping
// failures never affect enforcement itself.
package enforce

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatguard/bot-app/internal/events"
)

const (
	// OffensePrefix is the Redis key prefix for the last-offense record of
	// a user in a chat.
	OffensePrefix = "offense:"

	// CountPrefix is the Redis key prefix for per-user offense counters.
	CountPrefix = "offenses:"

	// OffenseTTL is how long the last-offense record is kept for review.
	OffenseTTL = 30 * 24 * time.Hour

	// CountTTL is how long the offense counter lives. It is set on the
	// first increment only, so the window does not slide.
	CountTTL = 30 * 24 * time.Hour
)

// Ledger records enforcement outcomes in Redis for moderator review.
// A nil *Ledger is a valid no-op ledger.
type Ledger struct {
	client *redis.Client
}

// NewLedger creates a ledger using the provided Redis client.
func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

func offenseKey(chatID, userID int64) string {
	return OffensePrefix + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
}

func countKey(chatID, userID int64) string {
	return CountPrefix + strconv.FormatInt(chatID, 10) + ":" + strconv.FormatInt(userID, 10)
}

// Record stores the latest offense for the user and bumps their counter.
// Returns the new offense count.
func (l *Ledger) Record(ctx context.Context, event events.EnforcementEvent) (int64, error) {
	if l == nil {
		return 0, nil
	}

	key := offenseKey(event.ChatID, event.UserID)
	record := map[string]interface{}{
		"event_id":   event.EventID,
		"message_id": event.MessageID,
		"category":   string(event.Category),
		"phrase":     event.Phrase,
		"banned":     event.Banned,
		"deleted":    event.Deleted,
		"ts":         event.Ts,
	}

	pipe := l.client.Pipeline()
	pipe.HSet(ctx, key, record)
	pipe.Expire(ctx, key, OffenseTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("enforce: record offense: %w", err)
	}

	cKey := countKey(event.ChatID, event.UserID)
	count, err := l.client.Incr(ctx, cKey).Result()
	if err != nil {
		return 0, fmt.Errorf("enforce: offense incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, cKey, CountTTL).Err(); err != nil {
			return count, fmt.Errorf("enforce: offense expire: %w", err)
		}
	}
	return count, nil
}

// Count returns the offense count for a user in a chat, 0 if none recorded.
func (l *Ledger) Count(ctx context.Context, chatID, userID int64) (int64, error) {
	if l == nil {
		return 0, nil
	}
	val, err := l.client.Get(ctx, countKey(chatID, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("enforce: offense count: %w", err)
	}
	return val, nil
}
