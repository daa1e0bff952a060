// Package loregrep is a repository indexing engine built on tree-sitter.
// It parses source files into concrete syntax trees, extracts structural
// facts (functions, structs, imports, exports, call sites), and exposes
// the resulting index through a small, stable set of query tools meant
// for consumption by LLM-based coding assistants.
//
// # Pipeline
//
// loregrep operates in one phase: scan discovers files, each file is
// read and handed to the Language Analyzer matching its extension, and
// the resulting FileAnalysis is inserted into the RepoMap, an in-memory
// index with reverse lookups by name, language, and call graph. There is
// no separate resolution phase; cross-file semantic resolution is out
// of scope.
//
// # Usage
//
// Build an Engine, scan a directory, then query it:
//
//	e, err := loregrep.NewBuilder().Build()
//	if err != nil { ... }
//
//	ctx := context.Background()
//	result, err := e.Scan(ctx, "path/to/project")
//
//	out := e.ExecuteTool(ctx, "search_functions", []byte(`{"pattern":"parse"}`))
//
// # Tool Dispatcher
//
// [Engine.ExecuteTool] routes six tools against the RepoMap:
//
//   - search_functions — name search over extracted functions.
//   - search_structs — name search over extracted structs.
//   - analyze_file — read and analyze a single file on demand.
//   - get_dependencies — list a file's imports.
//   - find_callers — call sites for a given function name.
//   - get_repository_tree — a directory-keyed summary of the index.
//
// [Engine.GetToolDefinitions] returns their JSON-Schema input
// definitions, static and independent of index state.
//
// # Incremental scanning
//
// [Engine.Scan] detects unchanged files via content hashing and skips
// re-analysis. Use [Builder.WithLanguages] to restrict which languages
// the Engine processes.
//
// # Language support
//
// Rust is the one fully-implemented Language Analyzer; every other
// extension the Scanner recognizes is accepted but produces an empty
// FileAnalysis rather than failing the scan.
package loregrep
