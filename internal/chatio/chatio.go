// Package chatio defines the contracts between the moderation core and the
// chat platform: the inbound message model and the collaborator interfaces
// for chat actions, file downloads, and OCR text extraction. The core depends
// only on these contracts; internal/telegram provides the live implementations.
package chatio

import "context"

// MediaKind describes what kind of media, if any, a message carries.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaPhoto
	MediaImageDocument
	MediaOtherDocument
)

// Message is the transport-independent view of one inbound chat message.
// It carries everything the decision pipeline needs: identity for
// enforcement, text for matching, and a file reference for OCR.
type Message struct {
	ChatID     int64
	UserID     int64
	Username   string
	MessageID  int
	Text       string
	Caption    string
	Media      MediaKind
	FileRef    string // platform file identifier, empty if no downloadable media
	MediaGroup bool   // message is part of an image media group
}

// MessageRef identifies a message for deletion.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// ChatActions is the enforcement and membership surface of the chat platform.
// DeleteMessage and BanUser report success/failure rather than returning
// errors: at this boundary a failed action is an outcome, not an exception.
type ChatActions interface {
	// IsAdministrator reports whether the user is an administrator or the
	// creator of the chat. Errors mean the lookup itself failed; callers
	// must fail open on error.
	IsAdministrator(ctx context.Context, chatID, userID int64) (bool, error)

	DeleteMessage(ctx context.Context, ref MessageRef) bool
	BanUser(ctx context.Context, chatID, userID int64) bool
}

// FileDownloader fetches raw file bytes from the chat platform.
type FileDownloader interface {
	Download(ctx context.Context, fileRef string) ([]byte, error)
}

// TextExtractor converts image bytes to text (OCR). langHints names the
// expected languages, e.g. []string{"rus", "eng"}.
type TextExtractor interface {
	Extract(ctx context.Context, image []byte, langHints []string) (string, error)
}
