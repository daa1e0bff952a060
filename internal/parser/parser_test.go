package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageForFile(t *testing.T) {
	lang, ok := LanguageForFile("src/main.rs")
	require.True(t, ok)
	assert.Equal(t, "rust", lang)

	lang, ok = LanguageForFile("a/b/Main.JAVA")
	require.True(t, ok)
	assert.Equal(t, "java", lang)

	_, ok = LanguageForFile("README.md")
	assert.False(t, ok)
}

func TestGrammarForLanguage(t *testing.T) {
	_, ok := GrammarForLanguage("rust")
	assert.True(t, ok)
	_, ok = GrammarForLanguage("cobol")
	assert.False(t, ok)
}

func TestSupportedLanguages_IncludesRust(t *testing.T) {
	assert.Contains(t, SupportedLanguages(), "rust")
}

func TestParse_ValidRustSource(t *testing.T) {
	tree, err := Parse(context.Background(), []byte("fn main() {}"), "rust")
	require.NoError(t, err)
	defer tree.Close()
	assert.Equal(t, "source_file", tree.RootNode().Type())
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse(context.Background(), []byte{0xff, 0xfe, 0xfd}, "rust")
	require.Error(t, err)
	var detail *ParseErrorDetail
	require.ErrorAs(t, err, &detail)
}

func TestParse_UnknownLanguage(t *testing.T) {
	_, err := Parse(context.Background(), []byte("irrelevant"), "cobol")
	require.Error(t, err)
}

func TestParse_ToleratesSyntaxErrors(t *testing.T) {
	tree, err := Parse(context.Background(), []byte("fn main( {"), "rust")
	require.NoError(t, err, "a malformed tree is still returned, not treated as fatal")
	defer tree.Close()
	assert.True(t, HasError(tree.RootNode()))
}
