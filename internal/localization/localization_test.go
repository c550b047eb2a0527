package localization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocale(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestLocalizer(t *testing.T) *Localizer {
	t.Helper()
	dir := t.TempDir()
	writeLocale(t, dir, "en.json", `{"hello": "Hello", "only_en": "English only", "count": "You have %d messages"}`)
	writeLocale(t, dir, "ru.json", `{"hello": "Привет"}`)
	l, err := NewLocalizer(dir)
	require.NoError(t, err)
	return l
}

func TestGetString(t *testing.T) {
	l := newTestLocalizer(t)

	assert.Equal(t, "Hello", l.GetString("en", "hello"))
	assert.Equal(t, "Привет", l.GetString("ru", "hello"))
}

func TestGetStringFallsBackToEnglish(t *testing.T) {
	l := newTestLocalizer(t)

	assert.Equal(t, "English only", l.GetString("ru", "only_en"))
	assert.Equal(t, "English only", l.GetString("de", "only_en"),
		"unknown languages fall back to English")
}

func TestGetStringUnknownKeyReturnsKey(t *testing.T) {
	l := newTestLocalizer(t)

	assert.Equal(t, "missing_key", l.GetString("en", "missing_key"))
	assert.Equal(t, "missing_key", l.GetString("ru", "missing_key"))
}

func TestGetf(t *testing.T) {
	l := newTestLocalizer(t)

	assert.Equal(t, "You have 3 messages", l.Getf("en", "count", 3))
}

func TestLanguages(t *testing.T) {
	l := newTestLocalizer(t)

	assert.ElementsMatch(t, []string{"en", "ru"}, l.Languages())
}

func TestNewLocalizerEmptyDir(t *testing.T) {
	_, err := NewLocalizer(t.TempDir())
	assert.Error(t, err)
}

func TestNewLocalizerBadJSON(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en.json", `not json`)

	_, err := NewLocalizer(dir)
	assert.Error(t, err)
}

func TestNewLocalizerSkipsNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en.json", `{"hello": "Hello"}`)
	writeLocale(t, dir, "README.md", `ignore me`)

	l, err := NewLocalizer(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"en"}, l.Languages())
}

// The shipped locale files must parse and agree on their key sets, so no
// language silently falls back for a message the bot actually sends.
func TestShippedLocalesShareKeys(t *testing.T) {
	l, err := NewLocalizer(".")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"en", "ru"}, l.Languages())

	for key := range l.translations["en"] {
		_, ok := l.translations["ru"][key]
		assert.True(t, ok, "ru.json is missing key %q", key)
	}
	for key := range l.translations["ru"] {
		_, ok := l.translations["en"][key]
		assert.True(t, ok, "en.json is missing key %q", key)
	}
}
