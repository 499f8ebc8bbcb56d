// Package moderation decides whether an inbound chat message violates the
// administrator-maintained deny-lists and drives enforcement when it does.
// It applies two matching policies: substring containment for free text and
// captions, and all-words-present for OCR-extracted image text. Matching is
// pure; the stores are never mutated from here.
package moderation

import (
	"strings"

	"github.com/chatguard/bot-app/internal/phrase"
)

// Matcher checks message text against the two category deny-lists.
type Matcher struct {
	text  *phrase.Store
	image *phrase.Store
}

// NewMatcher creates a matcher over the text and image deny-list stores.
func NewMatcher(text, image *phrase.Store) *Matcher {
	return &Matcher{text: text, image: image}
}

// CheckText applies the substring policy: the message matches if any stored
// phrase occurs contiguously within it, compared case-insensitively.
// First match wins.
func (m *Matcher) CheckText(text string) MatchResult {
	lowered := strings.ToLower(text)
	for _, p := range m.text.Phrases() {
		if strings.Contains(lowered, strings.ToLower(p)) {
			return MatchResult{Matched: true, Phrase: p, Category: phrase.CategoryText}
		}
	}
	return MatchResult{}
}

// CheckImageText applies the all-words-present policy to OCR output: a
// stored keyword line matches only if every whitespace-delimited word of the
// line appears somewhere in the lowered text as a substring. Word order and
// adjacency are not required, which tolerates OCR scrambling the layout.
// First fully satisfied line wins.
func (m *Matcher) CheckImageText(extracted string) MatchResult {
	lowered := strings.ToLower(extracted)
	for _, line := range m.image.Phrases() {
		words := strings.Fields(strings.ToLower(line))
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(lowered, w) {
				all = false
				break
			}
		}
		if all {
			return MatchResult{Matched: true, Phrase: line, Category: phrase.CategoryImage}
		}
	}
	return MatchResult{}
}
