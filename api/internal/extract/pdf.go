package extract

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// ScanDPI is the rasterisation resolution for pages without a text layer.
const ScanDPI = 300

// PDFDocument is the subset of *fitz.Document the PDF strategy needs.
type PDFDocument interface {
	NumPage() int
	Text(pageNumber int) (string, error)
	Bound(pageNumber int) (image.Rectangle, error)
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

var _ PDFDocument = (*fitz.Document)(nil)

type PDFOpener func(path string) (PDFDocument, error)

func openFitz(path string) (PDFDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// extractPDF walks pages in order. A page with a text layer is kept as is;
// a blank page is rendered and sent to OCR. Pages that end up empty are
// dropped without a marker.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	doc, err := e.openPDF(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	collected := make([]string, 0, n)
	scanned := 0
	for page := 0; page < n; page++ {
		txt, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: text: %w", page+1, err)
		}
		if txt = strings.TrimSpace(txt); txt == "" {
			// image-only page: render and OCR
			scanned++
			if txt, err = e.scanPage(ctx, doc, page); err != nil {
				return "", err
			}
		}
		if txt != "" {
			collected = append(collected, txt)
		}
	}

	e.log.Debug("pdf extracted",
		zap.String("path", path),
		zap.Int("pages", n),
		zap.Int("scanned", scanned),
		zap.Int("kept", len(collected)),
	)
	return strings.TrimSpace(strings.Join(collected, "\n\n")), nil
}

func (e *Extractor) scanPage(ctx context.Context, doc PDFDocument, page int) (string, error) {
	// bounds are in points (1/72 in); refuse renders the decoder limit would refuse
	b, err := doc.Bound(page)
	if err != nil {
		return "", fmt.Errorf("pdf page %d: bound: %w", page+1, err)
	}
	w := (int64(b.Dx())*ScanDPI + 71) / 72
	h := (int64(b.Dy())*ScanDPI + 71) / 72
	if w*h > maxDecodePixels {
		return "", fmt.Errorf("pdf page %d: %dx%d at %d dpi exceeds %d pixels", page+1, w, h, ScanDPI, maxDecodePixels)
	}
	img, err := doc.ImageDPI(page, ScanDPI)
	if err != nil {
		return "", fmt.Errorf("pdf page %d: render: %w", page+1, err)
	}
	txt, err := e.recognizeImage(ctx, img)
	if err != nil {
		return "", fmt.Errorf("pdf page %d: %w", page+1, err)
	}
	return txt, nil
}
