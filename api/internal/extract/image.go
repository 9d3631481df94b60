package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"tamil-extract/api/internal/ocr"
	"tamil-extract/api/internal/util"
)

// maxPixels caps what is sent to the model; larger images are scaled down.
const maxPixels = 18_000_000

// maxDecodePixels is the largest raster decoded in memory, checked from the
// header before any pixel buffer is allocated.
const maxDecodePixels = 200_000_000

func (e *Extractor) extractImageFile(ctx context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return e.recognizeBytes(ctx, b)
}

// recognizeBytes decodes the image so a broken file fails before the model is
// called, re-encodes it to PNG when needed and sends it to OCR.
func (e *Extractor) recognizeBytes(ctx context.Context, b []byte) (string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > maxDecodePixels {
		return "", fmt.Errorf("decode image: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxDecodePixels)
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	mime := util.SniffImageMIME(b)
	payload := b
	if scaled, ok := fitPixels(img, maxPixels); ok {
		img = scaled
		mime = ""
	}
	if !util.AcceptedByLLM(mime) {
		if payload, err = encodePNG(img); err != nil {
			return "", err
		}
		e.log.Debug("image re-encoded", zap.String("format", format), zap.Int("bytes", len(payload)))
		mime = "image/png"
	}
	return e.recognize(ctx, payload, mime)
}

func (e *Extractor) recognizeImage(ctx context.Context, img image.Image) (string, error) {
	if scaled, ok := fitPixels(img, maxPixels); ok {
		img = scaled
	}
	payload, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	return e.recognize(ctx, payload, "image/png")
}

func (e *Extractor) recognize(ctx context.Context, payload []byte, mime string) (string, error) {
	if e.rec == nil {
		return "", fmt.Errorf("ocr: no recognizer configured")
	}
	txt, err := e.rec.Recognize(ctx, payload, mime, ocr.TamilInstruction)
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", e.rec.Name(), err)
	}
	return strings.TrimSpace(txt), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

// fitPixels scales img down so that width*height <= limit, keeping the
// aspect ratio. The second result is false when no scaling was needed.
func fitPixels(img image.Image, limit int) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	if total <= limit || total == 0 {
		return img, false
	}
	scale := math.Sqrt(float64(limit) / float64(total))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, true
}
