package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	APIURL         string `yaml:"api_url"`
	CredDB         string `yaml:"cred_db"`
	DevMode        bool   `yaml:"dev_mode"`
	RequestTimeout int    `yaml:"request_timeout_seconds"`
	Locale         string `yaml:"locale"`
	StripeKey      string `yaml:"stripe_key"`
	StripeTestPM   string `yaml:"stripe_test_payment_method"`
}

// Effective runtime defaults applied over missing config values.
const (
	defaultAPIURL         = "https://api.arcana.app"
	defaultRequestTimeout = 30 * time.Second
	defaultStripeTestPM   = "pm_card_visa"
)

// EffectiveAPIURL resolves the backend base URL: flag override, env,
// config file, default — first found wins.
func EffectiveAPIURL() string {
	if override := getAPIURLOverride(); override != "" {
		return override
	}
	if env := os.Getenv("ARCANA_API_URL"); env != "" {
		return env
	}
	if s, err := LoadSettings(); err == nil && s.APIURL != "" {
		return s.APIURL
	}
	return defaultAPIURL
}

// EffectiveTimeout returns the per-request timeout.
func EffectiveTimeout() time.Duration {
	if s, err := LoadSettings(); err == nil && s.RequestTimeout > 0 {
		return time.Duration(s.RequestTimeout) * time.Second
	}
	return defaultRequestTimeout
}

// DevMode reports whether developer diagnostics are on.
func DevMode() bool {
	if os.Getenv("ARCANA_DEV") == "1" || os.Getenv("ARCANA_DEV") == "true" {
		return true
	}
	s, err := LoadSettings()
	return err == nil && s.DevMode
}

// StripeConfig returns the Stripe API key and the test payment method id
// used by the headless capture adapter.
func StripeConfig() (apiKey, paymentMethod string) {
	if env := os.Getenv("ARCANA_STRIPE_KEY"); env != "" {
		apiKey = env
	}
	s, err := LoadSettings()
	if err == nil {
		if apiKey == "" {
			apiKey = s.StripeKey
		}
		paymentMethod = s.StripeTestPM
	}
	if paymentMethod == "" {
		paymentMethod = defaultStripeTestPM
	}
	return apiKey, paymentMethod
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// The override globals back the CLI flags; both are intentional process-wide state.
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	overrideMu     sync.RWMutex
	apiURLOverride string
	credDBOverride string
)

// SetAPIURLOverride sets a process-wide base URL override (CLI --api-url).
func SetAPIURLOverride(url string) {
	overrideMu.Lock()
	apiURLOverride = url
	overrideMu.Unlock()
}

func getAPIURLOverride() string {
	overrideMu.RLock()
	v := apiURLOverride
	overrideMu.RUnlock()
	return v
}

// SetCredDBOverride sets a process-wide credential DB override (CLI --cred-db).
func SetCredDBOverride(path string) {
	overrideMu.Lock()
	credDBOverride = path
	overrideMu.Unlock()
}

func getCredDBOverride() string {
	overrideMu.RLock()
	v := credDBOverride
	overrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/arcana/config.yaml
// 2) /etc/arcana/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		paths := []string{
			filepath.Join(dir, "config.yaml"),
			filepath.Join(string(os.PathSeparator), "etc", "arcana", "config.yaml"),
			"config.yaml",
		}
		for _, p := range paths {
			s, loadErr := loadSettingsFile(p)
			if loadErr == nil {
				settings = s
				return
			}
			if !errors.Is(loadErr, os.ErrNotExist) {
				settingsErr = loadErr
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
