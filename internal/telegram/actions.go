// Package telegram adapts the moderation core to the Telegram Bot API via
// telebot. It implements the chatio collaborator contracts and routes
// inbound updates to the admin dialogue and the decision pipeline.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/chatguard/bot-app/internal/chatio"
)

// Actions implements chatio.ChatActions and chatio.FileDownloader on a
// telebot connection.
type Actions struct {
	bot *tele.Bot
}

// NewActions wraps a connected telebot instance.
func NewActions(bot *tele.Bot) *Actions {
	return &Actions{bot: bot}
}

// IsAdministrator reports whether the user is an administrator or the
// creator of the chat. Lookup errors are returned as-is; the caller decides
// the fail-open policy.
func (a *Actions) IsAdministrator(_ context.Context, chatID, userID int64) (bool, error) {
	member, err := a.bot.ChatMemberOf(&tele.Chat{ID: chatID}, &tele.User{ID: userID})
	if err != nil {
		return false, fmt.Errorf("telegram: chat member lookup: %w", err)
	}
	return member.Role == tele.Administrator || member.Role == tele.Creator, nil
}

// DeleteMessage removes a message. An already-deleted message counts as
// success: the goal is the message being gone.
func (a *Actions) DeleteMessage(_ context.Context, ref chatio.MessageRef) bool {
	stored := &tele.StoredMessage{
		MessageID: strconv.Itoa(ref.MessageID),
		ChatID:    ref.ChatID,
	}
	err := a.bot.Delete(stored)
	if err == nil {
		return true
	}

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "message to delete not found"):
		log.Printf("[telegram] message already deleted: chat=%d message=%d", ref.ChatID, ref.MessageID)
		return true
	case strings.Contains(text, "not enough rights"):
		log.Printf("[telegram] no rights to delete messages in chat=%d", ref.ChatID)
	default:
		log.Printf("[telegram] delete message chat=%d message=%d: %v", ref.ChatID, ref.MessageID, err)
	}
	return false
}

// BanUser bans the user from the chat without revoking their past messages.
func (a *Actions) BanUser(_ context.Context, chatID, userID int64) bool {
	member := &tele.ChatMember{User: &tele.User{ID: userID}}
	err := a.bot.Ban(&tele.Chat{ID: chatID}, member, false)
	if err == nil {
		return true
	}

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "user is an administrator"):
		log.Printf("[telegram] refused to ban an administrator: chat=%d user=%d", chatID, userID)
	case strings.Contains(text, "user_not_participant"):
		log.Printf("[telegram] user already left the chat: chat=%d user=%d", chatID, userID)
	case strings.Contains(text, "not enough rights"), strings.Contains(text, "chat_admin_required"):
		log.Printf("[telegram] no rights to ban in chat=%d, grant the bot ban permissions", chatID)
	default:
		log.Printf("[telegram] ban chat=%d user=%d: %v", chatID, userID, err)
	}
	return false
}

// Download fetches a file's bytes by its platform file ID.
func (a *Actions) Download(_ context.Context, fileRef string) ([]byte, error) {
	rc, err := a.bot.File(&tele.File{FileID: fileRef})
	if err != nil {
		return nil, fmt.Errorf("telegram: file %s: %w", fileRef, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("telegram: read file %s: %w", fileRef, err)
	}
	return data, nil
}
