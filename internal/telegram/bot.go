package telegram

import (
	"context"
	"log"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/chatguard/bot-app/internal/admin"
	"github.com/chatguard/bot-app/internal/chatio"
	"github.com/chatguard/bot-app/internal/moderation"
)

// adminCommands are the slash commands served in private chats.
var adminCommands = []string{
	"/start",
	"/help",
	"/add_phrase",
	"/remove_phrase",
	"/list_phrases",
	"/add_image_word",
	"/remove_image_word",
	"/list_image_words",
	"/cancel",
}

// Bot ties the telebot connection to the moderation core: admin commands and
// dialogue in private chats, moderation of everything else in groups.
type Bot struct {
	tb      *tele.Bot
	admin   *admin.Handler
	decider *moderation.Decider
}

// Connect creates the telebot instance with long polling.
func Connect(token string) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
}

// NewBot registers all handlers on the telebot instance.
func NewBot(tb *tele.Bot, adminHandler *admin.Handler, decider *moderation.Decider) *Bot {
	b := &Bot{tb: tb, admin: adminHandler, decider: decider}

	for _, command := range adminCommands {
		cmd := command
		tb.Handle(cmd, func(c tele.Context) error {
			return b.onCommand(c, cmd)
		})
	}

	tb.Handle(tele.OnText, b.onMessage)
	tb.Handle(tele.OnPhoto, b.onMessage)
	tb.Handle(tele.OnDocument, b.onMessage)
	// Fallback for remaining media kinds: their captions still go through
	// the text check.
	tb.Handle(tele.OnMedia, b.onMessage)

	return b
}

// Start begins long polling. Blocks until Stop is called.
func (b *Bot) Start() {
	log.Printf("[telegram] bot @%s polling", b.tb.Me.Username)
	b.tb.Start()
}

// Stop terminates long polling.
func (b *Bot) Stop() {
	b.tb.Stop()
}

// onCommand serves admin commands. Commands are only meaningful in private
// chats; in groups they are left alone (and moderated like any other text).
func (b *Bot) onCommand(c tele.Context, command string) error {
	msg := c.Message()
	if msg == nil || msg.Chat == nil || msg.Chat.Type != tele.ChatPrivate {
		return b.moderate(c)
	}
	return b.sendAll(c, b.admin.HandleCommand(command, senderID(msg), senderUsername(msg)))
}

// onMessage routes plain messages: private text feeds the admin dialogue,
// group messages go through moderation.
func (b *Bot) onMessage(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Chat == nil {
		return nil
	}
	if msg.Chat.Type == tele.ChatPrivate {
		if msg.Text == "" {
			return nil
		}
		return b.sendAll(c, b.admin.HandleText(senderID(msg), senderUsername(msg), msg.Text))
	}
	return b.moderate(c)
}

func (b *Bot) moderate(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Sender == nil {
		return nil
	}
	b.decider.HandleMessage(context.Background(), toMessage(msg))
	// Enforcement is silent: nothing is posted back to the group.
	return nil
}

func (b *Bot) sendAll(c tele.Context, replies []string) error {
	for _, reply := range replies {
		if err := c.Send(reply); err != nil {
			log.Printf("[telegram] send reply: %v", err)
			return err
		}
	}
	return nil
}

// toMessage maps a telebot message onto the transport-independent model.
func toMessage(m *tele.Message) chatio.Message {
	out := chatio.Message{
		ChatID:     m.Chat.ID,
		UserID:     m.Sender.ID,
		Username:   m.Sender.Username,
		MessageID:  m.ID,
		Text:       m.Text,
		Caption:    m.Caption,
		MediaGroup: m.AlbumID != "",
	}

	switch {
	case m.Photo != nil:
		out.Media = chatio.MediaPhoto
		out.FileRef = m.Photo.FileID
	case m.Document != nil:
		if moderation.IsImageDocument(m.Document.MIME, m.Document.FileName) {
			out.Media = chatio.MediaImageDocument
			out.FileRef = m.Document.FileID
		} else {
			out.Media = chatio.MediaOtherDocument
		}
	}
	return out
}

func senderID(m *tele.Message) int64 {
	if m.Sender == nil {
		return 0
	}
	return m.Sender.ID
}

func senderUsername(m *tele.Message) string {
	if m.Sender == nil {
		return ""
	}
	return m.Sender.Username
}
