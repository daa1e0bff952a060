package loregrep

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jward/loregrep/internal/analyzer"
	"github.com/jward/loregrep/internal/dispatch"
	"github.com/jward/loregrep/internal/index"
	"github.com/jward/loregrep/internal/model"
	"github.com/jward/loregrep/internal/scanner"
)

// engineState is the Engine's observable lifecycle state, per spec §4.F:
// NeverScanned -> Scanning -> Ready, with Scanning reachable again from
// Ready via a re-scan. The Engine has no clear operation; Ready is left
// only when a new Scan starts.
type engineState int32

const (
	stateNeverScanned engineState = iota
	stateScanning
	stateReady
)

// Engine is the builder-configured entry point: it orchestrates
// scan -> parallel analyze -> bulk-insert into the RepoMap, and routes
// execute_tool calls to the Tool Dispatcher.
type Engine struct {
	repo       *index.RepoMap
	scan       *scanner.Scanner
	analyzers  *analyzer.Registry
	dispatcher *dispatch.Dispatcher

	state  atomic.Int32
	scanMu sync.Mutex // serializes concurrent scans; never blocks readers
}

func newEngine(maxFiles int, cacheTTL time.Duration, scanCfg scanner.Config, registry *analyzer.Registry) *Engine {
	repo := index.New(maxFiles, cacheTTL)
	e := &Engine{
		repo:      repo,
		scan:      scanner.New(scanCfg),
		analyzers: registry,
	}
	e.dispatcher = dispatch.New(repo, registry, e.readFile)
	e.state.Store(int32(stateNeverScanned))
	return e
}

func (e *Engine) readFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return content, nil
}

// IsScanned reports whether the Engine is Ready: a Scan call has returned
// (with or without an error) and no Scan is running. It is false while a
// re-scan is in progress.
func (e *Engine) IsScanned() bool {
	return engineState(e.state.Load()) == stateReady
}

// GetStats returns the RepoMap's current metadata snapshot.
func (e *Engine) GetStats() model.RepoMapMetadata {
	return e.repo.Metadata()
}

// GetToolDefinitions returns the static list of tool schemas.
func (e *Engine) GetToolDefinitions() []model.ToolSchema {
	return e.dispatcher.Definitions()
}

// ExecuteTool routes a named, JSON-encoded tool call to the dispatcher.
// It never returns a Go error for a declared tool failure; see
// ToolResult.
func (e *Engine) ExecuteTool(ctx context.Context, name string, input json.RawMessage) model.ToolResult {
	return e.dispatcher.Dispatch(ctx, name, input)
}
