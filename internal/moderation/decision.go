package moderation

import (
	"context"
	"log"
	"time"

	"github.com/chatguard/bot-app/internal/chatio"
	"github.com/chatguard/bot-app/internal/enforce"
	"github.com/chatguard/bot-app/internal/metrics"
)

// DefaultLangHints is the OCR language hint set: group chats here mix
// Russian and English, and spam images do too.
var DefaultLangHints = []string{"rus", "eng"}

// Enforcer is the slice of internal/enforce the decider needs. Tests
// substitute a recording fake.
type Enforcer interface {
	Enforce(ctx context.Context, off enforce.Offense) enforce.Outcome
}

// Decider runs the full moderation pipeline for one inbound group message:
// exemption check, classification, text extraction, matching, enforcement.
type Decider struct {
	matcher   *Matcher
	actions   chatio.ChatActions
	files     chatio.FileDownloader
	ocr       chatio.TextExtractor
	enforcer  Enforcer
	langHints []string
}

// NewDecider wires the decision pipeline. langHints may be nil, in which
// case DefaultLangHints apply.
func NewDecider(matcher *Matcher, actions chatio.ChatActions, files chatio.FileDownloader, ocr chatio.TextExtractor, enforcer Enforcer, langHints []string) *Decider {
	if langHints == nil {
		langHints = DefaultLangHints
	}
	return &Decider{
		matcher:   matcher,
		actions:   actions,
		files:     files,
		ocr:       ocr,
		enforcer:  enforcer,
		langHints: langHints,
	}
}

// HandleMessage inspects one group message and enforces on a match.
// Every failure path fails open: on doubt the message stays.
func (d *Decider) HandleMessage(ctx context.Context, msg chatio.Message) {
	// Chat administrators and the creator are exempt. The check runs first
	// and short-circuits everything else; a failed lookup also exempts,
	// because detection that cannot identify its target must not punish.
	isAdmin, err := d.actions.IsAdministrator(ctx, msg.ChatID, msg.UserID)
	if err != nil {
		log.Printf("[moderation] admin lookup failed, skipping message: chat=%d user=%d: %v", msg.ChatID, msg.UserID, err)
		metrics.ExemptLookupFailures.Inc()
		return
	}
	if isAdmin {
		metrics.MessagesChecked.WithLabelValues("exempt").Inc()
		return
	}

	kind := Classify(msg)
	metrics.MessagesChecked.WithLabelValues(kind.String()).Inc()
	if kind == KindOther {
		return
	}

	// Image check first, then the caption/text check: an image message may
	// offend on either channel and both are inspected.
	if kind.ImageBearing() {
		if result := d.checkImage(ctx, msg); result.Matched {
			metrics.MatchesTotal.WithLabelValues(string(result.Category)).Inc()
			d.enforcer.Enforce(ctx, enforce.Offense{Msg: msg, Category: result.Category, Phrase: result.Phrase})
			return
		}
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return
	}

	if result := d.matcher.CheckText(text); result.Matched {
		log.Printf("[moderation] text match: chat=%d user=%d phrase=%q", msg.ChatID, msg.UserID, result.Phrase)
		metrics.MatchesTotal.WithLabelValues(string(result.Category)).Inc()
		d.enforcer.Enforce(ctx, enforce.Offense{Msg: msg, Category: result.Category, Phrase: result.Phrase})
	}
}

// checkImage downloads the message's image, runs OCR, and applies the
// all-words-present policy. Any failure is logged and treated as no match.
func (d *Decider) checkImage(ctx context.Context, msg chatio.Message) MatchResult {
	if msg.FileRef == "" {
		return MatchResult{}
	}

	start := time.Now()
	defer func() {
		metrics.ImageCheckDuration.Observe(time.Since(start).Seconds())
	}()

	image, err := d.files.Download(ctx, msg.FileRef)
	if err != nil {
		log.Printf("[moderation] image download failed: chat=%d message=%d: %v", msg.ChatID, msg.MessageID, err)
		metrics.ImageCheckFailures.WithLabelValues("download").Inc()
		return MatchResult{}
	}

	extracted, err := d.ocr.Extract(ctx, image, d.langHints)
	if err != nil {
		log.Printf("[moderation] ocr failed: chat=%d message=%d: %v", msg.ChatID, msg.MessageID, err)
		metrics.ImageCheckFailures.WithLabelValues("ocr").Inc()
		return MatchResult{}
	}

	result := d.matcher.CheckImageText(extracted)
	if result.Matched {
		log.Printf("[moderation] image match: chat=%d user=%d line=%q", msg.ChatID, msg.UserID, result.Phrase)
	}
	return result
}
