// Package extract turns an uploaded file into plain text. Machine-readable
// content is parsed locally; images and scanned PDF pages go through an
// ocr.Recognizer.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"tamil-extract/api/internal/ocr"
)

// ErrUnsupportedType is returned for extensions outside the known set.
// Callers treat it as bad input, not as a processing failure.
var ErrUnsupportedType = errors.New("unsupported file type")

type Kind int

const (
	KindImage Kind = iota + 1
	KindPDF
	KindDOCX
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	case KindDOCX:
		return "docx"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// KindOf maps a file extension (with or without the leading dot, any case)
// to its Kind.
func KindOf(ext string) (Kind, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")) {
	case "jpg", "jpeg", "png", "bmp", "webp":
		return KindImage, nil
	case "pdf":
		return KindPDF, nil
	case "docx":
		return KindDOCX, nil
	case "txt":
		return KindText, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

type Extractor struct {
	rec     ocr.Recognizer
	openPDF PDFOpener
	log     *zap.Logger
}

type Option func(*Extractor)

// WithPDFOpener replaces the MuPDF-backed opener.
func WithPDFOpener(open PDFOpener) Option {
	return func(e *Extractor) { e.openPDF = open }
}

func New(rec ocr.Recognizer, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		rec:     rec,
		openPDF: openFitz,
		log:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the file at path and returns its text. ext is the declared
// extension of the upload; when empty the extension of path is used.
func (e *Extractor) Extract(ctx context.Context, path, ext string) (string, error) {
	if ext == "" {
		ext = filepath.Ext(path)
	}
	kind, err := KindOf(ext)
	if err != nil {
		return "", err
	}
	e.log.Debug("extract", zap.String("path", path), zap.Stringer("kind", kind))

	switch kind {
	case KindImage:
		return e.extractImageFile(ctx, path)
	case KindPDF:
		return e.extractPDF(ctx, path)
	case KindDOCX:
		return extractDOCX(path)
	case KindText:
		return extractText(path)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}
