// Package model holds the data types shared across loregrep's core
// subsystems: the shapes produced by the Language Analyzer, stored by the
// RepoMap, and served by the Tool Dispatcher.
package model

import "time"

// Parameter is a single function parameter, captured verbatim from the
// source the grammar assigned to its type node.
type Parameter struct {
	Name     string `json:"name"`
	TypeText string `json:"type_text,omitempty"`
}

// FunctionSignature describes one function or method declaration.
type FunctionSignature struct {
	Name           string      `json:"name"`
	Parameters     []Parameter `json:"parameters"`
	ReturnTypeText string      `json:"return_type_text,omitempty"`
	IsPublic       bool        `json:"is_public"`
	IsAsync        bool        `json:"is_async"`
	StartLine      int         `json:"start_line"`
	EndLine        int         `json:"end_line"`
}

// Field is a single struct field.
type Field struct {
	Name     string `json:"name"`
	TypeText string `json:"type_text,omitempty"`
	IsPublic bool   `json:"is_public"`
}

// StructSignature describes one struct (or tuple struct) declaration.
type StructSignature struct {
	Name          string  `json:"name"`
	Fields        []Field `json:"fields"`
	IsPublic      bool    `json:"is_public"`
	IsTupleStruct bool    `json:"is_tuple_struct"`
	StartLine     int     `json:"start_line"`
	EndLine       int     `json:"end_line"`
}

// ImportStatement is a single use/import declaration.
type ImportStatement struct {
	ModulePath string `json:"module_path"`
	LineNumber int    `json:"line_number"`
	IsExternal bool   `json:"is_external"`
}

// ExportStatement is a single publicly re-exported item.
type ExportStatement struct {
	ExportedItem string `json:"exported_item"`
	LineNumber   int    `json:"line_number"`
}

// FunctionCall is one call-expression occurrence.
type FunctionCall struct {
	FunctionName   string `json:"function_name"`
	FilePath       string `json:"file_path"`
	LineNumber     int    `json:"line_number"`
	Column         int    `json:"column"`
	CallerFunction string `json:"caller_function,omitempty"`
}

// FileAnalysis is the per-file record produced by a Language Analyzer and
// owned exclusively by the RepoMap.
type FileAnalysis struct {
	FilePath      string              `json:"file_path"`
	Language      string              `json:"language"`
	Functions     []FunctionSignature `json:"functions"`
	Structs       []StructSignature   `json:"structs"`
	Imports       []ImportStatement   `json:"imports"`
	Exports       []ExportStatement   `json:"exports"`
	FunctionCalls []FunctionCall      `json:"function_calls"`
	ContentHash   string              `json:"content_hash"`
	LastModified  time.Time           `json:"last_modified"`
}

// CallSite is a reverse-index projection of a FunctionCall.
type CallSite struct {
	FilePath       string `json:"file_path"`
	LineNumber     int    `json:"line_number"`
	Column         int    `json:"column"`
	CalleeName     string `json:"callee_name"`
	CallerFunction string `json:"caller_function,omitempty"`
}

// RepoMapMetadata summarizes the current state of the index.
type RepoMapMetadata struct {
	TotalFiles      int       `json:"total_files"`
	TotalFunctions  int       `json:"total_functions"`
	TotalStructs    int       `json:"total_structs"`
	TotalImports    int       `json:"total_imports"`
	TotalExports    int       `json:"total_exports"`
	Languages       []string  `json:"languages"`
	LastUpdated     time.Time `json:"last_updated"`
	MemoryUsageByte int64     `json:"memory_usage_bytes"`
	CacheHits       int64     `json:"cache_hits"`
	CacheMisses     int64     `json:"cache_misses"`
}

// QueryResult is the uniform envelope for RepoMap read operations.
type QueryResult[T any] struct {
	Items         []T   `json:"items"`
	TotalMatches  int   `json:"total_matches"`
	QueryDuration int64 `json:"query_duration_ms"`
}

// ScanManifestEntry is one file discovered by the Scanner.
type ScanManifestEntry struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Language     string `json:"language"`
	SizeBytes    int64  `json:"size_bytes"`
}

// ScanManifest is the Scanner's output.
type ScanManifest struct {
	Files             []ScanManifestEntry `json:"files"`
	TotalFound        int                 `json:"total_found"`
	TotalFiltered     int                 `json:"total_filtered"`
	ScanDuration      time.Duration       `json:"scan_duration"`
	LanguagesHistogram map[string]int     `json:"languages_histogram"`
}

// ScanResult summarizes one Engine.Scan call.
type ScanResult struct {
	FilesScanned   int      `json:"files_scanned"`
	FunctionsFound int      `json:"functions_found"`
	StructsFound   int      `json:"structs_found"`
	DurationMs     int64    `json:"duration_ms"`
	Languages      []string `json:"languages"`
}

// ToolSchema describes one tool the dispatcher accepts.
type ToolSchema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"input_schema"`
}

// ToolResult is the uniform response envelope for execute_tool.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
