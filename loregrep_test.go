package loregrep_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/loregrep"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// TestScan_SingleRustFile covers indexing a single Rust file end to end:
// scan, then confirm the function/struct/call-graph facts it contributes.
func TestScan_SingleRustFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/lib.rs", `
pub fn parse_config(path: &str) -> Config { Config {} }
fn main() { parse_config("x"); }
pub struct Config { name: String }
`)

	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)

	ctx := context.Background()
	result, err := e.Scan(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 2, result.FunctionsFound)
	assert.Equal(t, 1, result.StructsFound)
	assert.ElementsMatch(t, []string{"rust"}, result.Languages)
	assert.True(t, e.IsScanned())

	stats := e.GetStats()
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 2, stats.TotalFunctions)
}

// TestScan_PatternTiers covers the exact/case-insensitive/substring
// ranking through the public search_functions tool.
func TestScan_PatternTiers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rs", `
fn parse() {}
fn Parse() {}
fn parseIt() {}
`)

	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)
	_, err = e.Scan(context.Background(), root)
	require.NoError(t, err)

	input, _ := json.Marshal(map[string]any{"pattern": "parse"})
	out := e.ExecuteTool(context.Background(), "search_functions", input)
	require.True(t, out.Success)

	data, err := json.Marshal(out.Data)
	require.NoError(t, err)

	var parsed struct {
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed.Results, 3)
	assert.Equal(t, "parse", parsed.Results[0].Name)
}

// TestScan_IncrementalSkipsUnchangedContent covers the content-hash skip
// path: a second scan with no filesystem changes reports the same file
// as scanned without re-analysis altering counts.
func TestScan_IncrementalSkipsUnchangedContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rs", "pub fn unchanged() {}")

	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)

	ctx := context.Background()
	first, err := e.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 1, first.FilesScanned)
	assert.Equal(t, 1, first.FunctionsFound)

	second, err := e.Scan(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, first.FilesScanned, second.FilesScanned, "unchanged file still counts as scanned")
	assert.Equal(t, first.FunctionsFound, second.FunctionsFound, "identical hash must not be observable in ScanResult counts")
	assert.Equal(t, first.StructsFound, second.StructsFound)
	assert.ElementsMatch(t, first.Languages, second.Languages)

	stats := e.GetStats()
	assert.Equal(t, 1, stats.TotalFunctions, "re-scanning unchanged content must not duplicate index entries")
}

// TestScan_CapacityLimitSkipsNewFilesOnly covers max_files: once the
// index is full, additional new paths are dropped but existing ones
// keep updating.
func TestScan_CapacityLimitSkipsNewFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.rs", "pub fn a() {}")
	writeFile(t, root, "b.rs", "pub fn b() {}")

	e, err := loregrep.NewBuilder().WithMaxFiles(1).Build()
	require.NoError(t, err)

	result, err := e.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned, "only one of the two files fits under max_files")

	stats := e.GetStats()
	assert.Equal(t, 1, stats.TotalFiles)
}

// TestExecuteTool_UnknownToolAndMissingFile covers the Tool Dispatcher's
// error paths: an unrecognized tool name, and analyze_file's distinct
// error envelope for a file that doesn't exist on disk.
func TestExecuteTool_UnknownToolAndMissingFile(t *testing.T) {
	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)
	ctx := context.Background()

	unknown := e.ExecuteTool(ctx, "delete_repository", json.RawMessage(`{}`))
	assert.False(t, unknown.Success)
	assert.Contains(t, unknown.Error, "Unknown tool")

	input, _ := json.Marshal(map[string]any{"file_path": "/no/such/file.rs"})
	missing := e.ExecuteTool(ctx, "analyze_file", input)
	assert.False(t, missing.Success)
	assert.Empty(t, missing.Error)

	data, err := json.Marshal(missing.Data)
	require.NoError(t, err)
	var parsed struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "error", parsed.Status)
	assert.Contains(t, parsed.Error, "Failed to read file")
}

// TestScan_GitignoreExcludesMatchedPaths covers gitignore-aware scanning
// end to end: an ignored directory never contributes to the index.
func TestScan_GitignoreExcludesMatchedPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "target/\n")
	writeFile(t, root, "src/main.rs", "pub fn main() {}")
	writeFile(t, root, "target/generated.rs", "pub fn generated() {}")

	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)

	result, err := e.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesScanned)

	input, _ := json.Marshal(map[string]any{"file_path": filepath.ToSlash(filepath.Join(root, "target/generated.rs"))})
	deps := e.ExecuteTool(context.Background(), "get_dependencies", input)
	require.True(t, deps.Success)
}

func TestGetToolDefinitions_ReturnsAllSix(t *testing.T) {
	e, err := loregrep.NewBuilder().Build()
	require.NoError(t, err)
	assert.Len(t, e.GetToolDefinitions(), 6)
}
