package analyzer

import (
	"context"

	"github.com/jward/loregrep/internal/model"
)

// StubAnalyzer satisfies the Analyzer contract for a language without
// implementing real extraction. Per spec §4.B, Rust is the one
// fully-implemented language; every other language the Scanner can
// classify is a stub that still produces a well-formed, empty
// FileAnalysis so the rest of the pipeline (RepoMap, Tool Dispatcher,
// get_repository_tree) treats the file as indexed rather than skipped.
type StubAnalyzer struct {
	Language string
}

func (a *StubAnalyzer) Analyze(ctx context.Context, source []byte, path string) (*model.FileAnalysis, error) {
	return &model.FileAnalysis{
		FilePath: path,
		Language: a.Language,
	}, nil
}
