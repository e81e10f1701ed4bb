// Package ocr extracts text from images through a pluggable recognition
// engine.
package ocr

import (
	"context"
)

// Engine abstracts OCR backends.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}
