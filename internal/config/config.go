package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Config is the on-disk app configuration. Every data call is scoped by
// UserID, so the file is created eagerly with a generated ID on first run.
type Config struct {
	UserID      string `json:"user_id"`
	OpenAIKey   string `json:"openai_api_key,omitempty"`
	OpenAIBase  string `json:"openai_base_url,omitempty"`
	OpenAIModel string `json:"openai_model,omitempty"`
	CreatedAt   string `json:"created_at"`
	LastUpdated string `json:"last_updated"`
}

const DefaultModel = "gpt-4o-mini"

// Path returns ~/.config/focusflow/config.json
func Path() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusflow", "config.json"), nil
}

// Load reads the config file, creating it with defaults when missing.
// OPENAI_API_KEY in the environment overrides the stored key.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := defaultConfig()
		if saveErr := Save(path, cfg); saveErr != nil {
			return nil, saveErr
		}
		applyEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if !ValidUserID(cfg.UserID) {
		return nil, fmt.Errorf("config: user_id %q is not a valid UUID", cfg.UserID)
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = DefaultModel
	}
	applyEnv(cfg)
	return cfg, nil
}

// Save writes the config, stamping last_updated.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	cfg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetUserID validates and persists a new user ID.
func SetUserID(path string, cfg *Config, userID string) error {
	if !ValidUserID(userID) {
		return fmt.Errorf("config: %q is not a valid UUID", userID)
	}
	cfg.UserID = userID
	return Save(path, cfg)
}

// ValidUserID reports whether s is a canonical 8-4-4-4-12 UUID.
func ValidUserID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func defaultConfig() *Config {
	now := time.Now().UTC().Format(time.RFC3339)
	return &Config{
		UserID:      uuid.NewString(),
		OpenAIModel: DefaultModel,
		CreatedAt:   now,
		LastUpdated: now,
	}
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.OpenAIKey = key
	}
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		cfg.OpenAIBase = base
	}
}
