package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tamil-extract/api/internal/config"
	"tamil-extract/api/internal/extract"
	"tamil-extract/api/internal/handle"
	"tamil-extract/api/internal/httpserver"
	"tamil-extract/api/internal/ocr/gemini"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("gemini client", zap.Error(err))
	}
	defer engine.Close()

	ext := extract.New(engine, logger.Named("extract"))
	h := handle.New(ext, cfg.ScratchDir, cfg.MaxUploadBytes(), logger.Named("http"))

	logger.Info("tamil-extract starting",
		zap.String("model", engine.GetModel()),
		zap.String("static_dir", cfg.StaticDir),
		zap.String("scratch_dir", cfg.ScratchDir),
	)
	srv := httpserver.New(cfg.Addr(), h.Routes(cfg.StaticDir))
	if err := httpserver.Run(ctx, srv, logger); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
