package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range append([]string{
		"CONFIG_FILE", "HOST", "PORT", "GEMINI_MODEL", "STATIC_DIR",
		"SCRATCH_DIR", "MAX_UPLOAD_MB", "DEBUG",
	}, apiKeyEnvs...) {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GeminiAPIKey != "k1" {
		t.Errorf("key = %q, want k1", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel != "gemini-flash-latest" {
		t.Errorf("model = %q", cfg.GeminiModel)
	}
	if cfg.Addr() != "0.0.0.0:5001" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Errorf("max upload = %d", cfg.MaxUploadBytes())
	}
}

func TestLoadAPIKeyPrecedence(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{"GeminiFirst", map[string]string{"GEMINI_API_KEY": "g", "GOOGLE_API_KEY": "o"}, "g", false},
		{"GoogleFallback", map[string]string{"GOOGLE_API_KEY": "o"}, "o", false},
		{"LegacyVar", map[string]string{"YOUR_API_KEY_HERE": "legacy"}, "legacy", false},
		{"Missing", map[string]string{}, "", true},
		{"Placeholder", map[string]string{"GEMINI_API_KEY": "YOUR_API_KEY_HERE"}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tc.wantErr {
				if !errors.Is(err, ErrMissingAPIKey) {
					t.Fatalf("expected ErrMissingAPIKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.GeminiAPIKey != tc.want {
				t.Errorf("key = %q, want %q", cfg.GeminiAPIKey, tc.want)
			}
		})
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9000\"\ngemini_model: gemini-2.5-pro\nstatic_dir: /srv/www\nmax_upload_mb: 8\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("PORT", "7000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("env should override file port, got %q", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.GeminiModel)
	}
	if cfg.StaticDir != "/srv/www" {
		t.Errorf("static dir = %q", cfg.StaticDir)
	}
	if cfg.MaxUploadMB != 8 {
		t.Errorf("max upload = %d", cfg.MaxUploadMB)
	}
}

func TestLoadBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("MAX_UPLOAD_MB", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad MAX_UPLOAD_MB")
	}

	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
