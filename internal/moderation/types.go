package moderation

import "github.com/chatguard/bot-app/internal/phrase"

// MatchResult is the outcome of checking one text body against a deny-list.
type MatchResult struct {
	Matched  bool
	Phrase   string          // the stored phrase that matched, literal form
	Category phrase.Category // which deny-list produced the match
}

// Kind classifies an inbound message into the closed set the decision
// pipeline switches on. Exactly one Kind is computed per message.
type Kind int

const (
	KindOther Kind = iota
	KindPlainText
	KindCaption
	KindImagePhoto
	KindImageDocument
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "text"
	case KindCaption:
		return "caption"
	case KindImagePhoto:
		return "photo"
	case KindImageDocument:
		return "image_document"
	default:
		return "other"
	}
}

// ImageBearing reports whether messages of this kind carry an image to OCR.
func (k Kind) ImageBearing() bool {
	return k == KindImagePhoto || k == KindImageDocument
}
