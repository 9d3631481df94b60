package handle

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tamil-extract/api/internal/extract"
)

type ExtractResponse struct {
	Text string `json:"text"`
}

// Extract handles POST /api/extract with a multipart "file" field.
func (h *Handle) Extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File too large (max %d bytes)", tooBig.Limit))
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			writeError(w, http.StatusBadRequest, "No file received")
		default:
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if strings.TrimSpace(header.Filename) == "" {
		writeError(w, http.StatusBadRequest, "Filename missing")
		return
	}

	ext := filepath.Ext(header.Filename)
	if _, err := extract.KindOf(ext); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	path, err := h.saveScratch(file, ext)
	if path != "" {
		defer h.removeScratch(path)
	}
	if err != nil {
		h.log.Error("save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := h.ext.Extract(r.Context(), path, ext)
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.log.Warn("extract failed",
			zap.String("filename", header.Filename),
			zap.Int64("size", header.Size),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.log.Info("extracted",
			zap.String("filename", header.Filename),
			zap.Int64("size", header.Size),
			zap.Int("chars", len([]rune(text))),
		)
		writeJSON(w, http.StatusOK, ExtractResponse{Text: text})
	}
}

// saveScratch writes the upload to a uniquely named file that keeps the
// original extension. The path is returned even on a write error so the
// caller can remove it.
func (h *Handle) saveScratch(src multipart.File, ext string) (string, error) {
	path := filepath.Join(h.scratchDir, "upload-"+uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return path, fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("write scratch file: %w", err)
	}
	return path, nil
}

func (h *Handle) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.log.Debug("remove scratch file", zap.String("path", path), zap.Error(err))
	}
}
