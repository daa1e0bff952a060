// Package parser wraps smacker/go-tree-sitter, hiding grammar-library
// details from the rest of loregrep's core. It is the Parser Adapter:
// it knows how to configure a grammar by language tag and parse a UTF-8
// buffer into a concrete syntax tree.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".go":    "go",
	".ts":    "typescript",
	".tsx":   "typescript",
	".js":    "javascript",
	".jsx":   "javascript",
	".py":    "python",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".java":  "java",
	".php":   "php",
	".rb":    "ruby",
}

var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			"go":         golang.GetLanguage(),
			"typescript": ts.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"python":     python.GetLanguage(),
			"rust":       rust.GetLanguage(),
			"c":          c.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"java":       java.GetLanguage(),
			"php":        php.GetLanguage(),
			"ruby":       ruby.GetLanguage(),
		}
	})
}

// LanguageForFile returns the canonical language name for a file path
// based on its extension. Returns ("", false) for unrecognized extensions.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := extToLanguage[ext]
	return lang, ok
}

// GrammarForLanguage returns the tree-sitter Language for a canonical
// language name. Returns (nil, false) if the language is not supported.
func GrammarForLanguage(lang string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[lang]
	return l, ok
}

// SupportedLanguages returns every language tag the adapter can parse.
func SupportedLanguages() []string {
	initGrammars()
	langs := make([]string, 0, len(langToGrammar))
	for l := range langToGrammar {
		langs = append(langs, l)
	}
	return langs
}

// ParseErrorDetail carries the reason a Parse call failed. The Engine
// wraps it, like any other analyzer failure, in the core package's
// AnalyzerError.
type ParseErrorDetail struct {
	Path     string
	Language string
	Reason   string
}

func (e *ParseErrorDetail) Error() string {
	return fmt.Sprintf("parser: %s (%s): %s", e.Path, e.Language, e.Reason)
}

// Parse parses source bytes for the given language tag, returning the
// concrete syntax tree. Source must be valid UTF-8. A tree containing
// ERROR nodes is still returned — callers extract what they can and skip
// captures rooted in an ERROR node, rather than aborting the file.
func Parse(ctx context.Context, source []byte, language string) (*sitter.Tree, error) {
	if !utf8.Valid(source) {
		return nil, &ParseErrorDetail{Language: language, Reason: "source is not valid UTF-8"}
	}

	grammar, ok := GrammarForLanguage(language)
	if !ok {
		return nil, &ParseErrorDetail{Language: language, Reason: "no grammar registered for language"}
	}

	p := sitter.NewParser()
	p.SetLanguage(grammar)

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, &ParseErrorDetail{Language: language, Reason: err.Error()}
	}
	if tree.RootNode() == nil {
		return nil, &ParseErrorDetail{Language: language, Reason: "parser returned no root node"}
	}
	return tree, nil
}

// HasError reports whether node or any of its descendants is a tree-sitter
// ERROR node, i.e. whether the tree was parsed with syntax errors.
func HasError(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	if node.HasError() {
		return true
	}
	return false
}
