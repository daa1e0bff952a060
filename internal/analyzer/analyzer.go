// Package analyzer implements the Language Analyzer: turning
// (source_bytes, file_path, language_tag) into a model.FileAnalysis.
// Rust is the one fully-implemented language; every other language the
// Scanner can classify gets a stub that still satisfies the contract.
package analyzer

import (
	"context"
	"fmt"

	"github.com/jward/loregrep/internal/model"
)

// Analyzer turns source bytes for a single file into a FileAnalysis. It
// never blocks on I/O — the Engine hands in the bytes it already read.
type Analyzer interface {
	Analyze(ctx context.Context, source []byte, path string) (*model.FileAnalysis, error)
}

// Registry maps a language tag to the Analyzer that handles it.
type Registry struct {
	analyzers map[string]Analyzer
}

// NewRegistry builds the default registry: a full Rust analyzer plus a
// stub for every other language the parser adapter can parse.
func NewRegistry() *Registry {
	r := &Registry{analyzers: make(map[string]Analyzer)}
	r.analyzers["rust"] = &RustAnalyzer{}

	for _, lang := range []string{
		"go", "python", "javascript", "typescript",
		"java", "c", "cpp", "php", "ruby",
	} {
		r.analyzers[lang] = &StubAnalyzer{Language: lang}
	}
	return r
}

// For returns the Analyzer registered for a language, and whether one
// exists.
func (r *Registry) For(language string) (Analyzer, bool) {
	a, ok := r.analyzers[language]
	return a, ok
}

// Languages returns the set of languages this registry has an analyzer for.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.analyzers))
	for l := range r.analyzers {
		langs = append(langs, l)
	}
	return langs
}

// Restrict returns a new Registry containing only the requested languages
// that are present in r. Used by Builder.WithLanguages.
func (r *Registry) Restrict(languages []string) *Registry {
	restricted := &Registry{analyzers: make(map[string]Analyzer, len(languages))}
	for _, lang := range languages {
		if a, ok := r.analyzers[lang]; ok {
			restricted.analyzers[lang] = a
		}
	}
	return restricted
}

// errAnalyze wraps an analyzer-local failure with the file path for
// context, matching the core package's AnalyzerError shape.
func errAnalyze(path string, reason string) error {
	return fmt.Errorf("analyze %s: %s", path, reason)
}
