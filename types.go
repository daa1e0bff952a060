package loregrep

import "github.com/jward/loregrep/internal/model"

// Public type aliases for the internal model types used across the
// programmatic surface. These are Go type aliases (=) — identical to
// the internal types at compile time; external consumers use these
// names and no conversion is needed.

type Parameter = model.Parameter
type FunctionSignature = model.FunctionSignature
type Field = model.Field
type StructSignature = model.StructSignature
type ImportStatement = model.ImportStatement
type ExportStatement = model.ExportStatement
type FunctionCall = model.FunctionCall
type FileAnalysis = model.FileAnalysis
type CallSite = model.CallSite
type RepoMapMetadata = model.RepoMapMetadata
type QueryResult[T any] = model.QueryResult[T]
type ScanManifestEntry = model.ScanManifestEntry
type ScanManifest = model.ScanManifest
type ScanResult = model.ScanResult
type ToolSchema = model.ToolSchema
type ToolResult = model.ToolResult
