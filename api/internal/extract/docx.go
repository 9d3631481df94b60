package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const docxMainPart = "word/document.xml"

func extractDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("open docx: %s not found", docxMainPart)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer rc.Close()

	paras, err := bodyParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	return strings.TrimSpace(strings.Join(paras, "\n")), nil
}

// bodyParagraphs returns the text of every paragraph that is a direct child
// of w:body, in document order. Table cells and text boxes are not body
// paragraphs and are skipped.
func bodyParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paras []string
		cur   strings.Builder
		stack []string
		inPar bool
		parAt int // depth of the open body paragraph
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)

			switch {
			case name == "p" && parent == "body":
				inPar = true
				parAt = len(stack)
				cur.Reset()
			case !inPar || parent != "r" || slices.Contains(stack[parAt:], "txbxContent"):
			case name == "tab":
				cur.WriteByte('\t')
			case name == "br" || name == "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			if inPar && len(stack) == parAt {
				paras = append(paras, cur.String())
				inPar = false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if !inPar || len(stack) == 0 || stack[len(stack)-1] != "t" {
				continue
			}
			if slices.Contains(stack[parAt:], "txbxContent") {
				continue
			}
			cur.Write(t)
		}
	}
	return paras, nil
}
