package moderation

import (
	"testing"

	"github.com/chatguard/bot-app/internal/chatio"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  chatio.Message
		want Kind
	}{
		{"plain text", chatio.Message{Text: "hello"}, KindPlainText},
		{"caption only", chatio.Message{Caption: "nice pic", Media: chatio.MediaOtherDocument}, KindCaption},
		{"photo", chatio.Message{Media: chatio.MediaPhoto}, KindImagePhoto},
		{"photo with caption classifies as photo", chatio.Message{Media: chatio.MediaPhoto, Caption: "look"}, KindImagePhoto},
		{"image document", chatio.Message{Media: chatio.MediaImageDocument}, KindImageDocument},
		{"media group member", chatio.Message{MediaGroup: true}, KindImagePhoto},
		{"pdf document no caption", chatio.Message{Media: chatio.MediaOtherDocument}, KindOther},
		{"empty message", chatio.Message{}, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.msg); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsImageDocument(t *testing.T) {
	tests := []struct {
		name     string
		mime     string
		fileName string
		want     bool
	}{
		{"image mime", "image/jpeg", "whatever.bin", true},
		{"image mime uppercase", "IMAGE/PNG", "x", true},
		{"pdf mime", "application/pdf", "doc.pdf", false},
		{"jpg extension no mime", "", "photo.jpg", true},
		{"png extension uppercase", "", "SCREENSHOT.PNG", true},
		{"webp extension", "application/octet-stream", "sticker.webp", true},
		{"txt extension", "", "notes.txt", false},
		{"no mime no extension", "", "archive", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsImageDocument(tt.mime, tt.fileName); got != tt.want {
				t.Errorf("IsImageDocument(%q, %q) = %v, want %v", tt.mime, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if got := KindImageDocument.String(); got != "image_document" {
		t.Errorf("String() = %q, want %q", got, "image_document")
	}
	if got := KindOther.String(); got != "other" {
		t.Errorf("String() = %q, want %q", got, "other")
	}
}
