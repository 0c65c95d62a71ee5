package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUSPassesPrintableASCIIThrough(t *testing.T) {
	tab, err := New(US, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "A", tab.Translate('A'))
	assert.Equal(t, " ", tab.Translate(' '))
	assert.Equal(t, "~", tab.Translate('~'))
}

func TestControlCodesRenderAsMnemonics(t *testing.T) {
	tab, err := New(US, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "<ETX>", tab.Translate(0x03))
	assert.Equal(t, "<DEL>", tab.Translate(0x7f))
}

func TestGermanUTF8Overrides(t *testing.T) {
	tab, err := New(DE, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "ä", tab.Translate(0x7b))
	assert.Equal(t, "ß", tab.Translate(0x7e))
	// Unrelated code points are untouched by the overlay.
	assert.Equal(t, "A", tab.Translate('A'))
}

func TestGermanTransliterateOverrides(t *testing.T) {
	tab, err := New(DE, Transliterate)
	require.NoError(t, err)
	assert.Equal(t, "ae", tab.Translate(0x7b))
	assert.Equal(t, "ss", tab.Translate(0x7e))
}

func TestFrenchAndSlovenianOnlyHaveUTF8Overrides(t *testing.T) {
	tabUTF8, err := New(FR, UTF8)
	require.NoError(t, err)
	assert.Equal(t, "é", tabUTF8.Translate(0x7b))

	tabLatin1, err := New(FR, Latin1)
	require.NoError(t, err)
	// No Latin-1 override exists for FR, so it falls back to the base table.
	assert.Equal(t, "{", tabLatin1.Translate(0x7b))

	tabSI, err := New(SI, Transliterate)
	require.NoError(t, err)
	assert.Equal(t, "{", tabSI.Translate(0x7b))
}

func TestUnknownVariantFallsBackToUS(t *testing.T) {
	tab, err := New(Variant("XX"), UTF8)
	require.Error(t, err)
	assert.Equal(t, "A", tab.Translate('A'))
}

func TestTranslateMasksHighBit(t *testing.T) {
	tab, err := New(US, UTF8)
	require.NoError(t, err)
	assert.Equal(t, tab.Translate('A'), tab.Translate('A'|0x80))
}
