// Package index implements the RepoMap: the in-memory store of
// FileAnalysis records and the reverse indexes built over them (by
// function name, struct name, import path, export name, language, and
// the callee→call-site graph), plus the query-result cache.
//
// The store owns every FileAnalysis by value; reverse indexes hold only
// file paths, never copies of signatures, so a removal invalidates a
// file's contributions without touching anyone else's.
package index

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jward/loregrep/internal/model"
)

// CapacityExceededError reports that add_or_replace would have pushed
// the index past its configured file limit. The insertion is a no-op.
type CapacityExceededError struct {
	MaxFiles int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("index: capacity exceeded: max_files=%d", e.MaxFiles)
}

// InvariantViolationError indicates the index reached a state its own
// bookkeeping says is impossible. It is always a bug, never surfaced to
// a caller as a recoverable condition.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("index: invariant violation: %s", e.Reason)
}

// fileRecord is the RepoMap's internal wrapper around one FileAnalysis.
// Per spec §9's guidance for garbage-collected languages, reverse
// indexes are built over paths (which double as the dense-vector
// replacement) rather than positions in a slice that would need
// remapping on removal.
type fileRecord struct {
	analysis model.FileAnalysis
}

// RepoMap is the index. It is safe for concurrent use: queries take the
// read lock, mutations take the write lock, matching spec §5's
// single-writer/multi-reader discipline.
type RepoMap struct {
	mu       sync.RWMutex
	maxFiles int

	files map[string]*fileRecord

	funcNameIndex   map[string]map[string]struct{} // function name -> set of paths
	structNameIndex map[string]map[string]struct{}
	importIndex     map[string]map[string]struct{}
	exportIndex     map[string]map[string]struct{}
	langIndex       map[string]map[string]struct{}
	callGraph       map[string][]model.CallSite // callee name -> call sites

	totalFunctions int
	totalStructs   int
	totalImports   int
	totalExports   int
	lastUpdated    time.Time
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64

	cache *queryCache
}

// New creates an empty RepoMap. maxFiles <= 0 means unlimited. cacheTTL
// <= 0 disables the query cache.
func New(maxFiles int, cacheTTL time.Duration) *RepoMap {
	return &RepoMap{
		maxFiles:        maxFiles,
		files:           make(map[string]*fileRecord),
		funcNameIndex:   make(map[string]map[string]struct{}),
		structNameIndex: make(map[string]map[string]struct{}),
		importIndex:     make(map[string]map[string]struct{}),
		exportIndex:     make(map[string]map[string]struct{}),
		langIndex:       make(map[string]map[string]struct{}),
		callGraph:       make(map[string][]model.CallSite),
		cache:           newQueryCache(cacheTTL),
	}
}

// AddOrReplace inserts file, replacing any existing record for the same
// path first. It enforces max_files only for genuinely new paths: a
// replace of an existing path never fails on capacity.
func (r *RepoMap) AddOrReplace(file model.FileAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.files[file.FilePath]; ok {
		r.unindexLocked(file.FilePath, existing)
	} else if r.maxFiles > 0 && len(r.files) >= r.maxFiles {
		return &CapacityExceededError{MaxFiles: r.maxFiles}
	}

	rec := &fileRecord{analysis: file}
	r.files[file.FilePath] = rec
	r.indexLocked(file.FilePath, rec)
	r.lastUpdated = timeNow()
	r.cache.invalidate()
	return nil
}

// Remove deletes the record at path, if present, subtracting its
// contributions from every reverse index. Reports whether a record was
// actually removed.
func (r *RepoMap) Remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.files[path]
	if !ok {
		return false
	}
	r.unindexLocked(path, rec)
	delete(r.files, path)
	r.lastUpdated = timeNow()
	r.cache.invalidate()
	return true
}

// Clear empties the index entirely.
func (r *RepoMap) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = make(map[string]*fileRecord)
	r.funcNameIndex = make(map[string]map[string]struct{})
	r.structNameIndex = make(map[string]map[string]struct{})
	r.importIndex = make(map[string]map[string]struct{})
	r.exportIndex = make(map[string]map[string]struct{})
	r.langIndex = make(map[string]map[string]struct{})
	r.callGraph = make(map[string][]model.CallSite)
	r.totalFunctions, r.totalStructs, r.totalImports, r.totalExports = 0, 0, 0, 0
	r.lastUpdated = timeNow()
	r.cache.invalidate()
}

// indexLocked adds rec's contributions to every reverse index. Caller
// holds the write lock.
func (r *RepoMap) indexLocked(path string, rec *fileRecord) {
	fa := rec.analysis
	for _, fn := range fa.Functions {
		addToSet(r.funcNameIndex, fn.Name, path)
	}
	for _, st := range fa.Structs {
		addToSet(r.structNameIndex, st.Name, path)
	}
	for _, imp := range fa.Imports {
		addToSet(r.importIndex, imp.ModulePath, path)
	}
	for _, exp := range fa.Exports {
		addToSet(r.exportIndex, exp.ExportedItem, path)
	}
	addToSet(r.langIndex, fa.Language, path)
	for _, call := range fa.FunctionCalls {
		r.callGraph[call.FunctionName] = append(r.callGraph[call.FunctionName], model.CallSite{
			FilePath:       call.FilePath,
			LineNumber:     call.LineNumber,
			Column:         call.Column,
			CalleeName:     call.FunctionName,
			CallerFunction: call.CallerFunction,
		})
	}

	r.totalFunctions += len(fa.Functions)
	r.totalStructs += len(fa.Structs)
	r.totalImports += len(fa.Imports)
	r.totalExports += len(fa.Exports)
}

// unindexLocked subtracts rec's contributions (iterating only rec's own
// lists, per spec §3 invariant 2) from every reverse index. Caller holds
// the write lock.
func (r *RepoMap) unindexLocked(path string, rec *fileRecord) {
	fa := rec.analysis
	for _, fn := range fa.Functions {
		removeFromSet(r.funcNameIndex, fn.Name, path)
	}
	for _, st := range fa.Structs {
		removeFromSet(r.structNameIndex, st.Name, path)
	}
	for _, imp := range fa.Imports {
		removeFromSet(r.importIndex, imp.ModulePath, path)
	}
	for _, exp := range fa.Exports {
		removeFromSet(r.exportIndex, exp.ExportedItem, path)
	}
	removeFromSet(r.langIndex, fa.Language, path)
	for _, call := range fa.FunctionCalls {
		site := model.CallSite{FilePath: call.FilePath, LineNumber: call.LineNumber, Column: call.Column, CalleeName: call.FunctionName, CallerFunction: call.CallerFunction}
		sites := r.callGraph[call.FunctionName]
		for i, cs := range sites {
			if cs == site {
				sites = append(sites[:i], sites[i+1:]...)
				break
			}
		}
		if len(sites) == 0 {
			delete(r.callGraph, call.FunctionName)
		} else {
			r.callGraph[call.FunctionName] = sites
		}
	}

	r.totalFunctions -= len(fa.Functions)
	r.totalStructs -= len(fa.Structs)
	r.totalImports -= len(fa.Imports)
	r.totalExports -= len(fa.Exports)
}

func addToSet(idx map[string]map[string]struct{}, key, path string) {
	set, ok := idx[key]
	if !ok {
		set = make(map[string]struct{})
		idx[key] = set
	}
	set[path] = struct{}{}
}

func removeFromSet(idx map[string]map[string]struct{}, key, path string) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, path)
	if len(set) == 0 {
		delete(idx, key)
	}
}

// Metadata returns a snapshot of the index's current counters.
func (r *RepoMap) Metadata() model.RepoMapMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.langIndex))
	for l := range r.langIndex {
		langs = append(langs, l)
	}

	return model.RepoMapMetadata{
		TotalFiles:      len(r.files),
		TotalFunctions:  r.totalFunctions,
		TotalStructs:    r.totalStructs,
		TotalImports:    r.totalImports,
		TotalExports:    r.totalExports,
		Languages:       langs,
		LastUpdated:     r.lastUpdated,
		MemoryUsageByte: r.estimateMemoryLocked(),
		CacheHits:       r.cacheHits.Load(),
		CacheMisses:     r.cacheMisses.Load(),
	}
}

// estimateMemoryLocked is a rough, monotone-with-size estimate; spec §4.D
// requires monotonicity, not precision. Caller holds at least the read
// lock.
func (r *RepoMap) estimateMemoryLocked() int64 {
	const (
		perFunction = 160
		perStruct   = 160
		perImport   = 64
		perExport   = 48
		perFile     = 256
	)
	return int64(len(r.files))*perFile +
		int64(r.totalFunctions)*perFunction +
		int64(r.totalStructs)*perStruct +
		int64(r.totalImports)*perImport +
		int64(r.totalExports)*perExport
}

// Paths returns every currently-indexed file path, used by the Engine to
// diff a scan's manifest against the previous snapshot.
func (r *RepoMap) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.files))
	for p := range r.files {
		paths = append(paths, p)
	}
	return paths
}

// All returns a snapshot of every currently-indexed FileAnalysis, in no
// particular order. Callers that need deterministic output sort it
// themselves.
func (r *RepoMap) All() []model.FileAnalysis {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FileAnalysis, 0, len(r.files))
	for _, rec := range r.files {
		out = append(out, rec.analysis)
	}
	return out
}

// Get returns the FileAnalysis stored at path, if any.
func (r *RepoMap) Get(path string) (model.FileAnalysis, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.files[path]
	if !ok {
		return model.FileAnalysis{}, false
	}
	return rec.analysis, true
}

// timeNow is a seam so tests can observe LastUpdated advancing without
// depending on wall-clock resolution.
var timeNow = time.Now
