package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEmbeddedCatalog(t *testing.T) {
	assert.True(t, HasLocale("en"))
	assert.Equal(t, "Document approved", Translate("en", "document_approved.title"))
	assert.Equal(t, "Your PAN Card has been approved.", Format("en", "document_approved.message", "PAN Card"))
}

func TestTranslateFallsBackToDefaultLocale(t *testing.T) {
	assert.Equal(t, Translate("en", "email.footer"), Translate("hi", "email.footer"))
	assert.Equal(t, Translate("en", "email.footer"), Translate("fr", "email.footer"))
}

func TestTranslateUnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "missing.key", Translate("en", "missing.key"))
}

func TestLoadTranslationsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog/xx.yaml": {Data: []byte("MESSAGES:\n  greeting: \"hello %s\"\n")},
		"catalog/notes.txt": {Data: []byte("ignored")},
	}

	require.NoError(t, LoadTranslations(fsys, "catalog"))
	assert.Equal(t, "hello Asha", Format("xx", "greeting", "Asha"))
	assert.True(t, HasLocale("xx"))
	assert.False(t, HasLocale("notes"))
}

func TestLoadTranslationsRejectsMalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"bad/yy.yaml": {Data: []byte("MESSAGES: [unterminated")},
	}

	assert.Error(t, LoadTranslations(fsys, "bad"))
	assert.False(t, HasLocale("yy"))
}
