package handle

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Extractor is what the upload endpoint needs from extract.Extractor.
type Extractor interface {
	Extract(ctx context.Context, path, ext string) (string, error)
}

type Handle struct {
	ext        Extractor
	scratchDir string
	maxUpload  int64
	log        *zap.Logger
}

func New(ext Extractor, scratchDir string, maxUpload int64, logger *zap.Logger) *Handle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		ext:        ext,
		scratchDir: scratchDir,
		maxUpload:  maxUpload,
		log:        logger,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
