package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const placeholderKey = "YOUR_API_KEY_HERE"

var ErrMissingAPIKey = errors.New("set GEMINI_API_KEY (or GOOGLE_API_KEY) in the environment before running the server")

// apiKeyEnvs are checked in order; the first non-empty one wins.
var apiKeyEnvs = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", placeholderKey}

type Config struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`

	GeminiAPIKey string `yaml:"-"`
	GeminiModel  string `yaml:"gemini_model"`

	StaticDir   string `yaml:"static_dir"`
	ScratchDir  string `yaml:"scratch_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`

	Debug bool `yaml:"debug"`
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// MaxUploadBytes is the request body limit for a single upload.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func defaults() *Config {
	return &Config{
		Host:        "0.0.0.0",
		Port:        "5001",
		GeminiModel: "gemini-flash-latest",
		StaticDir:   "frontend/dist",
		ScratchDir:  os.TempDir(),
		MaxUploadMB: 32,
	}
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if set), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Host = getEnv("HOST", cfg.Host)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.ScratchDir = getEnv("SCRATCH_DIR", cfg.ScratchDir)

	if v := getEnv("MAX_UPLOAD_MB", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad MAX_UPLOAD_MB %q", v)
		}
		cfg.MaxUploadMB = n
	}
	if v := getEnv("DEBUG", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("bad DEBUG %q: %w", v, err)
		}
		cfg.Debug = b
	}

	key, err := apiKey()
	if err != nil {
		return nil, err
	}
	cfg.GeminiAPIKey = key
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("parse config %s: max_upload_mb must be positive", path)
	}
	return nil
}

func apiKey() (string, error) {
	var key string
	for _, k := range apiKeyEnvs {
		if key = getEnv(k, ""); key != "" {
			break
		}
	}
	if key == "" || strings.Contains(key, placeholderKey) {
		return "", ErrMissingAPIKey
	}
	return key, nil
}
