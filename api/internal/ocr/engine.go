package ocr

import (
	"context"
)

// TamilInstruction is sent together with every image.
const TamilInstruction = "Extract ALL Tamil text (handwritten + printed) from this image. " +
	"Return ONLY the text, no explanation."

// Recognizer is the OCR collaborator: one still image in, free-form text out.
// An empty string is a valid answer.
type Recognizer interface {
	Name() string
	GetModel() string
	Recognize(ctx context.Context, image []byte, mime, instruction string) (string, error)
}
