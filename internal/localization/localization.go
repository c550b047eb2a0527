// Package localization loads per-language string tables from JSON files
// and resolves keys with an English fallback.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Localizer holds the translation tables, keyed by language code then by
// message key.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every *.json file in dir as a language table; the
// file name without extension is the language code (e.g. "ru.json").
func NewLocalizer(dir string) (*Localizer, error) {
	l := &Localizer{translations: make(map[string]map[string]string)}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", file.Name(), err)
		}
		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", file.Name(), err)
		}
		l.translations[lang] = table
	}
	if len(l.translations) == 0 {
		return nil, fmt.Errorf("no locale files found in %s", dir)
	}
	return l, nil
}

// GetString returns the string for key in lang, falling back to English
// and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if table, ok := l.translations[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if lang != "en" {
		if table, ok := l.translations["en"]; ok {
			if v, ok := table[key]; ok {
				return v
			}
		}
	}
	return key
}

// Getf formats the localized string for key with args.
func (l *Localizer) Getf(lang, key string, args ...interface{}) string {
	return fmt.Sprintf(l.GetString(lang, key), args...)
}

// Languages lists the loaded language codes.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		out = append(out, lang)
	}
	return out
}
