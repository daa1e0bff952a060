package loregrep

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/jward/loregrep/internal/model"
)

// scanItem is everything a parallel analysis worker needs for one file.
type scanItem struct {
	path    string
	lang    string
	content []byte
	hash    string
}

// scanOutcome is one worker's result, paired back with its item so
// Phase C can commit in a deterministic, serial critical section.
type scanOutcome struct {
	item scanItem
	fa   *model.FileAnalysis
	err  error
}

// Scan implements spec §4.F's scan(path) algorithm as a three-phase
// pipeline: Phase A (serial) reads each candidate file and decides
// whether it needs (re-)analysis; Phase B (parallel) runs the matching
// Language Analyzer over a worker pool; Phase C (serial) commits results
// into the RepoMap and removes paths no longer present.
//
// Concurrent calls to Scan are serialized; Scan never blocks queries
// already in flight against the previous snapshot.
func (e *Engine) Scan(ctx context.Context, root string) (model.ScanResult, error) {
	e.scanMu.Lock()
	defer e.scanMu.Unlock()

	e.state.Store(int32(stateScanning))
	defer e.state.Store(int32(stateReady))

	start := time.Now()

	manifest, err := e.scan.Scan(root)
	if err != nil {
		return model.ScanResult{}, &IOError{Path: root, Err: err}
	}

	previous := make(map[string]bool)
	for _, p := range e.repo.Paths() {
		previous[p] = true
	}
	seen := make(map[string]bool, len(manifest.Files))

	// ---- Phase A: serial prepare ----
	var items []scanItem
	filesScanned := 0
	functionsFound := 0
	structsFound := 0
	languages := make(map[string]bool)
	for _, f := range manifest.Files {
		if ctx.Err() != nil {
			break
		}

		path := filepath.ToSlash(f.AbsolutePath)
		content, readErr := os.ReadFile(f.AbsolutePath)
		if readErr != nil {
			continue // IOError: the file is skipped, not logged
		}
		hash := model.ContentHash(content)
		seen[path] = true

		if existing, ok := e.repo.Get(path); ok && existing.ContentHash == hash {
			// Unchanged: scanned, analysis skipped, but its already-indexed
			// contributions still count toward this scan's totals so that
			// re-scanning identical content is unobservable in ScanResult.
			filesScanned++
			functionsFound += len(existing.Functions)
			structsFound += len(existing.Structs)
			languages[existing.Language] = true
			continue
		}

		if _, ok := e.analyzers.For(f.Language); !ok {
			continue
		}
		items = append(items, scanItem{path: path, lang: f.Language, content: content, hash: hash})
	}

	// ---- Phase B: parallel analyze ----
	outcomes := e.analyzeParallel(ctx, items)

	// ---- Phase C: serial commit ----
	for _, out := range outcomes {
		if out.err != nil {
			continue // AnalyzerError (parse failures included): skipped, not logged
		}
		fa := *out.fa
		fa.FilePath = out.item.path
		fa.Language = out.item.lang
		fa.ContentHash = out.item.hash
		fa.LastModified = time.Now()

		if err := e.repo.AddOrReplace(fa); err != nil {
			continue // CapacityExceeded: aborts only this insertion
		}
		filesScanned++
		functionsFound += len(fa.Functions)
		structsFound += len(fa.Structs)
		languages[fa.Language] = true
	}

	for path := range previous {
		if !seen[path] {
			e.repo.Remove(path)
		}
	}

	langList := make([]string, 0, len(languages))
	for l := range languages {
		langList = append(langList, l)
	}

	return model.ScanResult{
		FilesScanned:   filesScanned,
		FunctionsFound: functionsFound,
		StructsFound:   structsFound,
		DurationMs:     time.Since(start).Milliseconds(),
		Languages:      langList,
	}, nil
}

// analyzeParallel runs each item's Language Analyzer over a worker pool
// bounded by the logical CPU count, per spec §5's default backpressure
// policy.
func (e *Engine) analyzeParallel(ctx context.Context, items []scanItem) []scanOutcome {
	if len(items) == 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(items) {
		numWorkers = len(items)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan scanItem, len(items))
	for _, item := range items {
		workCh <- item
	}
	close(workCh)

	resultCh := make(chan scanOutcome, len(items))
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				an, ok := e.analyzers.For(item.lang)
				if !ok {
					resultCh <- scanOutcome{item: item, err: &AnalyzerError{Path: item.path}}
					continue
				}
				fa, err := an.Analyze(ctx, item.content, item.path)
				if err != nil {
					resultCh <- scanOutcome{item: item, err: &AnalyzerError{Path: item.path, Err: err}}
					continue
				}
				resultCh <- scanOutcome{item: item, fa: fa}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	outcomes := make([]scanOutcome, 0, len(items))
	for out := range resultCh {
		outcomes = append(outcomes, out)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].item.path < outcomes[j].item.path })
	return outcomes
}
