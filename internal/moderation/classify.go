package moderation

import (
	"path"
	"strings"

	"github.com/chatguard/bot-app/internal/chatio"
)

// imageExtensions are the file extensions treated as images when a document
// arrives without a usable MIME type.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// IsImageDocument reports whether a document attachment should be treated as
// an image, judged by MIME type first and file extension as a fallback.
// The transport layer uses this to tag chatio.MediaImageDocument.
func IsImageDocument(mimeType, fileName string) bool {
	if strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return true
	}
	return imageExtensions[strings.ToLower(path.Ext(fileName))]
}

// Classify maps a message to exactly one Kind. Media-group members are
// treated as photos: the platform delivers album items individually, and an
// album of images must not slip past the image check.
func Classify(msg chatio.Message) Kind {
	switch {
	case msg.Media == chatio.MediaPhoto || msg.MediaGroup:
		return KindImagePhoto
	case msg.Media == chatio.MediaImageDocument:
		return KindImageDocument
	case msg.Caption != "":
		return KindCaption
	case msg.Text != "":
		return KindPlainText
	default:
		return KindOther
	}
}
