package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loregrep/internal/analyzer"
	"github.com/jward/loregrep/internal/index"
	"github.com/jward/loregrep/internal/model"
)

func newDispatcherWithFile(t *testing.T, path string, fa model.FileAnalysis, reader FileReader) *Dispatcher {
	t.Helper()
	repo := index.New(0, time.Minute)
	if path != "" {
		require.NoError(t, repo.AddOrReplace(fa))
	}
	return New(repo, analyzer.NewRegistry(), reader)
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, nil)
	result := d.Dispatch(context.Background(), "delete_everything", nil)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Unknown tool")
}

func TestDispatch_SearchFunctions_Success(t *testing.T) {
	fa := model.FileAnalysis{
		FilePath:  "a.rs",
		Language:  "rust",
		Functions: []model.FunctionSignature{{Name: "parse_config"}},
	}
	d := newDispatcherWithFile(t, "a.rs", fa, nil)

	in, err := json.Marshal(map[string]any{"pattern": "parse_config"})
	require.NoError(t, err)

	result := d.Dispatch(context.Background(), "search_functions", in)
	require.True(t, result.Success)

	resp, ok := result.Data.(searchResponse[model.FunctionSignature])
	require.True(t, ok)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.Count)
}

func TestDispatch_SearchFunctions_InvalidJSON(t *testing.T) {
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, nil)
	result := d.Dispatch(context.Background(), "search_functions", json.RawMessage(`{"pattern":`))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "Invalid search_functions input")
}

func TestDispatch_GetDependencies_MissingFilePath(t *testing.T) {
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, nil)
	result := d.Dispatch(context.Background(), "get_dependencies", json.RawMessage(`{}`))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "file_path is required")
}

func TestDispatch_FindCallers_DefaultLimit(t *testing.T) {
	fa := model.FileAnalysis{
		FilePath: "a.rs",
		Language: "rust",
		FunctionCalls: []model.FunctionCall{
			{FunctionName: "helper", FilePath: "a.rs", LineNumber: 4},
		},
	}
	d := newDispatcherWithFile(t, "a.rs", fa, nil)

	in, _ := json.Marshal(map[string]any{"function_name": "helper"})
	result := d.Dispatch(context.Background(), "find_callers", in)
	require.True(t, result.Success)

	resp, ok := result.Data.(findCallersResponse)
	require.True(t, ok)
	assert.Equal(t, 1, resp.Count)
}

func TestDispatch_AnalyzeFile_MissingFileErrorShape(t *testing.T) {
	reader := func(path string) ([]byte, error) {
		return nil, errors.New("open " + path + ": no such file or directory")
	}
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, reader)

	in, _ := json.Marshal(map[string]any{"file_path": "missing.rs"})
	result := d.Dispatch(context.Background(), "analyze_file", in)

	assert.False(t, result.Success)
	assert.Empty(t, result.Error, "analyze_file reports errors through data, not the top-level error field")

	resp, ok := result.Data.(analyzeFileErrorResponse)
	require.True(t, ok)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "Failed to read file")
}

func TestDispatch_AnalyzeFile_Success(t *testing.T) {
	reader := func(path string) ([]byte, error) {
		return []byte("pub fn foo() {}"), nil
	}
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, reader)

	in, _ := json.Marshal(map[string]any{"file_path": "foo.rs", "include_content": true})
	result := d.Dispatch(context.Background(), "analyze_file", in)

	require.True(t, result.Success)
	resp, ok := result.Data.(analyzeFileResponse)
	require.True(t, ok)
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Analysis.Functions, 1)
	assert.Equal(t, "foo", resp.Analysis.Functions[0].Name)
	assert.Equal(t, "pub fn foo() {}", resp.Content)
}

func TestDispatch_AnalyzeFile_UnsupportedExtension(t *testing.T) {
	reader := func(path string) ([]byte, error) { return []byte("whatever"), nil }
	d := newDispatcherWithFile(t, "", model.FileAnalysis{}, reader)

	in, _ := json.Marshal(map[string]any{"file_path": "notes.txt"})
	result := d.Dispatch(context.Background(), "analyze_file", in)

	assert.False(t, result.Success)
	resp, ok := result.Data.(analyzeFileErrorResponse)
	require.True(t, ok)
	assert.Contains(t, resp.Error, "Unsupported file type")
}

func TestDispatch_GetRepositoryTree_GroupsByDirectory(t *testing.T) {
	repo := index.New(0, 0)
	require.NoError(t, repo.AddOrReplace(model.FileAnalysis{FilePath: "src/a.rs", Language: "rust"}))
	require.NoError(t, repo.AddOrReplace(model.FileAnalysis{FilePath: "src/b.rs", Language: "rust"}))
	require.NoError(t, repo.AddOrReplace(model.FileAnalysis{FilePath: "lib/c.rs", Language: "rust"}))

	d := New(repo, analyzer.NewRegistry(), nil)
	result := d.Dispatch(context.Background(), "get_repository_tree", json.RawMessage(`{}`))
	require.True(t, result.Success)

	resp, ok := result.Data.(getRepositoryTreeResponse)
	require.True(t, ok)
	assert.Equal(t, 3, resp.TotalFiles)
	assert.Equal(t, 2, resp.TotalDirectories)
	assert.ElementsMatch(t, []string{"a.rs", "b.rs"}, resp.TreeStructure.Directories["src"])
}

func TestDefinitions_EnumeratesSixTools(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 6)
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.ElementsMatch(t, []string{
		"search_functions", "search_structs", "analyze_file",
		"get_dependencies", "find_callers", "get_repository_tree",
	}, names)
	assert.NotContains(t, names, "scan_repository")
}
