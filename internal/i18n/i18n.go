// Package i18n supplies user-facing strings. Every message the classifier
// or the checkout workflow shows a user goes through T; nothing else in the
// client hardcodes display text.
package i18n

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when no locale has been selected or a key is
// missing from the selected catalog.
const DefaultLocale = "en"

var (
	mu       sync.RWMutex
	locale   = DefaultLocale
	catalogs = map[string]map[string]string{}
)

func init() {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			continue
		}
		cat := map[string]string{}
		if err := yaml.Unmarshal(data, &cat); err != nil {
			continue
		}
		catalogs[name] = cat
	}
}

// SetLocale selects the active catalog. Unknown locales fall back to the
// default at lookup time rather than failing here.
func SetLocale(l string) {
	mu.Lock()
	locale = l
	mu.Unlock()
}

// T resolves a message key against the active catalog, substituting
// {{name}} placeholders from vars. A missing key returns the key itself so
// a bad lookup is visible in the UI instead of blank.
func T(key string, vars map[string]string) string {
	mu.RLock()
	l := locale
	mu.RUnlock()

	msg, ok := lookup(l, key)
	if !ok {
		msg, ok = lookup(DefaultLocale, key)
	}
	if !ok {
		return key
	}
	for k, v := range vars {
		msg = strings.ReplaceAll(msg, fmt.Sprintf("{{%s}}", k), v)
	}
	return msg
}

func lookup(l, key string) (string, bool) {
	cat, ok := catalogs[l]
	if !ok {
		return "", false
	}
	msg, ok := cat[key]
	return msg, ok
}
