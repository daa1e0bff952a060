package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jward/loregrep/internal/analyzer"
	"github.com/jward/loregrep/internal/index"
	"github.com/jward/loregrep/internal/model"
)

// FileReader is the Engine's file-read capability, handed to the
// dispatcher so analyze_file can read a path outside the index without
// the dispatcher importing the filesystem directly.
type FileReader func(path string) ([]byte, error)

// Dispatcher routes named, JSON-encoded tool calls to RepoMap queries.
type Dispatcher struct {
	repo      *index.RepoMap
	analyzers *analyzer.Registry
	readFile  FileReader
}

// New builds a Dispatcher over repo, using analyzers for analyze_file
// and readFile to satisfy its file-read requirement.
func New(repo *index.RepoMap, analyzers *analyzer.Registry, readFile FileReader) *Dispatcher {
	return &Dispatcher{repo: repo, analyzers: analyzers, readFile: readFile}
}

// Definitions returns the static tool schema list.
func (d *Dispatcher) Definitions() []model.ToolSchema {
	return Definitions()
}

// Dispatch executes one named tool call. It never panics or returns a Go
// error for a declared tool failure — every failure mode is surfaced in
// the returned ToolResult, per spec §4.E.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, input json.RawMessage) model.ToolResult {
	handler, ok := handlers[name]
	if !ok {
		return model.ToolResult{Success: false, Error: fmt.Sprintf("Unknown tool: %s", name)}
	}
	return handler(ctx, d, input)
}

type toolHandler func(ctx context.Context, d *Dispatcher, input json.RawMessage) model.ToolResult

var handlers = map[string]toolHandler{
	"search_functions":    handleSearchFunctions,
	"search_structs":      handleSearchStructs,
	"analyze_file":        handleAnalyzeFile,
	"get_dependencies":    handleGetDependencies,
	"find_callers":        handleFindCallers,
	"get_repository_tree": handleGetRepositoryTree,
}

// invalidInput builds the uniform "Invalid <name> input: <reason>" error
// ToolResult for a tool whose input failed schema/decode validation.
func invalidInput(name string, reason string) model.ToolResult {
	return model.ToolResult{Success: false, Error: fmt.Sprintf("Invalid %s input: %s", name, reason)}
}

func decodeInput(input json.RawMessage, v any) error {
	if len(input) == 0 {
		return nil
	}
	return json.Unmarshal(input, v)
}
