package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetCredDBPath resolves the credential database path.
// Order of precedence:
// 1) CLI override (--cred-db)
// 2) Environment variable: ARCANA_CRED_DB
// 3) config.yaml: cred_db
// 4) Default: ~/.config/arcana/credentials.db
// Ensures the parent directory exists.
func GetCredDBPath() (string, error) {
	if override := getCredDBOverride(); override != "" {
		return ensureDBDir(override)
	}

	if envPath := os.Getenv("ARCANA_CRED_DB"); envPath != "" {
		return ensureDBDir(envPath)
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.CredDB != "" {
		return ensureDBDir(cfg.CredDB)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return ensureDBDir(filepath.Join(configDir, "credentials.db"))
}

// ensureDBDir expands a leading ~, creates the parent directory, and
// returns the cleaned path. In-memory paths pass through untouched.
func ensureDBDir(path string) (string, error) {
	if path == ":memory:" || strings.Contains(path, ":memory:") {
		return path, nil
	}
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", err
	}
	return path, nil
}
