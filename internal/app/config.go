package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/arcana/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "arcana"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# arcana configuration
# Run: arcana --help

# Backend base URL. Can also be set via ARCANA_API_URL or --api-url.
# api_url: https://api.arcana.app

# Optional: override the credential database location.
# Can also be set via ARCANA_CRED_DB or --cred-db.
# cred_db: ~/.config/arcana/credentials.db

# Enable developer diagnostics (slow-call warnings, error echo).
# dev_mode: false
`
