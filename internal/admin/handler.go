package admin

import (
	"fmt"
	"log"
	"strings"

	"github.com/chatguard/bot-app/internal/metrics"
	"github.com/chatguard/bot-app/internal/phrase"
)

// MaxReplyLen is the chat platform's message length ceiling. Phrase listings
// are chunked to stay under it.
const MaxReplyLen = 4096

const (
	replyDenied     = "❌ У Вас нет прав для выполнения этой команды."
	replyCanceled   = "❌ Операция отменена."
	replySaveFailed = "⚠️ Не удалось сохранить изменения, попробуйте еще раз."
	replyUnknown    = "Неизвестная команда. Используйте /help для списка команд."
	replyContact    = "По всем вопросам Вы можете обратиться к администратору чата."
	replyHelp       = "Доступные команды:\n\n" +
		"/add_phrase - Добавить запрещенную фразу\n" +
		"/remove_phrase - Удалить запрещенную фразу из списка\n" +
		"/list_phrases - Показать список всех запрещенных фраз\n" +
		"/add_image_word - Добавить запрещенные слова для картинок\n" +
		"/remove_image_word - Удалить запрещенные слова для картинок\n" +
		"/list_image_words - Показать список запрещенных слов для картинок\n" +
		"/help - Помощь\n" +
		"/cancel - Отмена текущей операции"
	replyStartAdmin = "Привет! Я бот для модерации чатов.\n" +
		"Я удаляю сообщения и картинки, содержащие запрещенные фразы, слова и буквосочетания, и баню их отправителей.\n\n" +
		replyHelp
	replyStartDenied = "Привет! У Вас нет прав для управления этим ботом.\n" + replyContact
)

// Handler routes admin commands and dialogue payloads to the deny-list
// stores and produces the user-facing replies.
type Handler struct {
	admins   map[string]bool
	text     *phrase.Store
	image    *phrase.Store
	sessions *Sessions
}

// NewHandler creates a handler. adminUsernames is the allow-list of platform
// usernames permitted to manage the deny-lists.
func NewHandler(adminUsernames []string, text, image *phrase.Store) *Handler {
	admins := make(map[string]bool, len(adminUsernames))
	for _, u := range adminUsernames {
		u = strings.TrimPrefix(strings.TrimSpace(u), "@")
		if u != "" {
			admins[strings.ToLower(u)] = true
		}
	}
	return &Handler{
		admins:   admins,
		text:     text,
		image:    image,
		sessions: NewSessions(),
	}
}

// IsAdmin reports whether a username is on the admin allow-list.
// Users without a username are never admins.
func (h *Handler) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	return h.admins[strings.ToLower(strings.TrimPrefix(username, "@"))]
}

// HandleCommand processes one slash command from a private chat and returns
// the replies to send. Unknown commands get a hint; non-admins get a
// permission-denied reply and cause no state change.
func (h *Handler) HandleCommand(command string, userID int64, username string) []string {
	cmd := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(command)), "/")

	if cmd == "start" {
		if h.IsAdmin(username) {
			return []string{replyStartAdmin}
		}
		return []string{replyStartDenied}
	}

	if !h.IsAdmin(username) {
		if cmd == "help" {
			return []string{"У Вас нет прав для управления этим ботом.", replyContact}
		}
		return []string{replyDenied}
	}

	switch cmd {
	case "help":
		return []string{replyHelp}

	case "add_phrase":
		h.sessions.Set(userID, StateAwaitingAddTextPhrase)
		return []string{"📝 Пожалуйста, введите фразу для добавления в список запрещенных:"}

	case "remove_phrase":
		h.sessions.Set(userID, StateAwaitingRemoveTextPhrase)
		return []string{"🗑 Пожалуйста, введите фразу для удаления из списка запрещенных:"}

	case "add_image_word":
		h.sessions.Set(userID, StateAwaitingAddImageWord)
		return []string{"📝 Пожалуйста, введите слова для добавления в список запрещенных на картинках:"}

	case "remove_image_word":
		h.sessions.Set(userID, StateAwaitingRemoveImageWord)
		return []string{"🗑 Пожалуйста, введите слова для удаления из списка запрещенных на картинках:"}

	case "list_phrases":
		return h.listReplies("📝 Список запрещенных фраз", h.text)

	case "list_image_words":
		return h.listReplies("📝 Список запрещенных слов для картинок", h.image)

	case "cancel":
		if h.sessions.Reset(userID) {
			return []string{replyCanceled}
		}
		// Cancel with nothing in progress is a quiet acknowledgment.
		return nil

	default:
		return []string{replyUnknown}
	}
}

// HandleText processes one plain-text private message. If the sender has a
// dialogue in progress, the text is the phrase payload; the state resets to
// Idle whether or not the operation succeeds. Admin text outside a dialogue
// is ignored.
func (h *Handler) HandleText(userID int64, username, text string) []string {
	if !h.IsAdmin(username) {
		return []string{replyDenied}
	}

	state := h.sessions.Get(userID)
	if state == StateIdle {
		return nil
	}
	h.sessions.Set(userID, StateIdle)

	payload := strings.TrimSpace(text)
	switch state {
	case StateAwaitingAddTextPhrase:
		return h.addReply(username, h.text, payload, "Фраза")
	case StateAwaitingRemoveTextPhrase:
		return h.removeReply(username, h.text, payload, "Фраза")
	case StateAwaitingAddImageWord:
		return h.addReply(username, h.image, payload, "Комбинация слов")
	case StateAwaitingRemoveImageWord:
		return h.removeReply(username, h.image, payload, "Комбинация слов")
	default:
		return nil
	}
}

func (h *Handler) addReply(username string, store *phrase.Store, payload, noun string) []string {
	added, err := store.Add(payload)
	if err != nil {
		log.Printf("[admin] add to %s list failed: %v", store.Category(), err)
		return []string{replySaveFailed}
	}
	if !added {
		return []string{fmt.Sprintf("❌ %s \"%s\" уже есть в списке.", noun, payload)}
	}
	log.Printf("[admin] %s added to %s list: %q", username, store.Category(), payload)
	metrics.DenyListSize.WithLabelValues(string(store.Category())).Set(float64(store.Len()))
	return []string{fmt.Sprintf("✅ %s \"%s\" добавлена в список запрещенных.", noun, payload)}
}

func (h *Handler) removeReply(username string, store *phrase.Store, payload, noun string) []string {
	removed, err := store.Remove(payload)
	if err != nil {
		log.Printf("[admin] remove from %s list failed: %v", store.Category(), err)
		return []string{replySaveFailed}
	}
	if !removed {
		return []string{fmt.Sprintf("❌ %s \"%s\" не найдена в списке.", noun, payload)}
	}
	log.Printf("[admin] %s removed from %s list: %q", username, store.Category(), payload)
	metrics.DenyListSize.WithLabelValues(string(store.Category())).Set(float64(store.Len()))
	return []string{fmt.Sprintf("✅ %s \"%s\" удалена из списка запрещенных.", noun, payload)}
}

// listReplies renders the deny-list as bullet lines, chunked so each reply
// stays under MaxReplyLen.
func (h *Handler) listReplies(header string, store *phrase.Store) []string {
	phrases := store.Phrases()
	if len(phrases) == 0 {
		return []string{header + " пуст."}
	}

	lines := make([]string, len(phrases))
	for i, p := range phrases {
		lines[i] = "• " + p
	}
	return chunkLines(header+":\n", lines, MaxReplyLen)
}

// chunkLines joins lines into messages no longer than limit. The header
// prefixes the first chunk only. A single line longer than the limit is
// emitted as its own oversized chunk rather than split mid-phrase.
func chunkLines(header string, lines []string, limit int) []string {
	var chunks []string
	current := header
	for _, line := range lines {
		candidate := current + "\n" + line
		if current == header {
			candidate = current + line
		}
		if len(candidate) > limit && current != header && current != "" {
			chunks = append(chunks, current)
			current = line
			continue
		}
		current = candidate
	}
	if current != "" && current != header {
		chunks = append(chunks, current)
	}
	return chunks
}
