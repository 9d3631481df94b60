package extract

import (
	"archive/zip"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

type recognizeCall struct {
	mime        string
	size        int
	instruction string
}

type fakeRecognizer struct {
	replies []string
	err     error
	calls   []recognizeCall
}

func (f *fakeRecognizer) Name() string     { return "fake" }
func (f *fakeRecognizer) GetModel() string { return "fake-model" }

func (f *fakeRecognizer) Recognize(_ context.Context, img []byte, mime, instruction string) (string, error) {
	f.calls = append(f.calls, recognizeCall{mime: mime, size: len(img), instruction: instruction})
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

// fakePDF serves per-page text; a page with blank text renders to a tiny
// white bitmap.
type fakePDF struct {
	pages   []string
	textErr error
	closed  bool
	renders []int
	// bounds in points; zero means a 200x200 page
	bounds image.Rectangle
}

func (d *fakePDF) NumPage() int { return len(d.pages) }

func (d *fakePDF) Text(n int) (string, error) {
	if d.textErr != nil {
		return "", d.textErr
	}
	return d.pages[n], nil
}

func (d *fakePDF) Bound(int) (image.Rectangle, error) {
	if d.bounds.Empty() {
		return image.Rect(0, 0, 200, 200), nil
	}
	return d.bounds, nil
}

func (d *fakePDF) ImageDPI(n int, dpi float64) (*image.RGBA, error) {
	if dpi != ScanDPI {
		return nil, errors.New("unexpected dpi")
	}
	d.renders = append(d.renders, n)
	return solidImage(4, 4), nil
}

func (d *fakePDF) Close() error {
	d.closed = true
	return nil
}

func openerFor(doc *fakePDF) PDFOpener {
	return func(string) (PDFDocument, error) { return doc, nil }
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

const docxNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// writeDOCX packs body (the inner XML of w:body) into a minimal .docx.
func writeDOCX(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(docxMainPart)
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + docxNS + `><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
