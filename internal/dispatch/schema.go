// Package dispatch implements the Tool Dispatcher: a fixed, enumerated
// set of named tools, their JSON-Schema input definitions, and routing
// of JSON-encoded calls to RepoMap queries through a uniform ToolResult
// envelope.
package dispatch

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jward/loregrep/internal/model"
)

// toolNames enumerates the exact tool set. scan_repository is
// intentionally absent: scanning is host-managed through Engine.Scan,
// per the library's own documented design principle.
var toolNames = []string{
	"search_functions",
	"search_structs",
	"analyze_file",
	"get_dependencies",
	"find_callers",
	"get_repository_tree",
}

// Definitions returns the static list of tool schemas. Pure: it reads no
// index state.
func Definitions() []model.ToolSchema {
	return []model.ToolSchema{
		{
			Name:        "search_functions",
			Description: "Search indexed functions by name, returning matches ranked by how closely they match the pattern.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"pattern":  {Type: "string", Description: "Exact name, substring, or regular expression to match against function names."},
					"limit":    {Type: "integer", Description: "Maximum results to return. Defaults to 20."},
					"language": {Type: "string", Description: "Restrict results to this language tag, e.g. \"rust\"."},
				},
				Required: []string{"pattern"},
			},
		},
		{
			Name:        "search_structs",
			Description: "Search indexed structs by name, returning matches ranked by how closely they match the pattern.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"pattern":  {Type: "string", Description: "Exact name, substring, or regular expression to match against struct names."},
					"limit":    {Type: "integer", Description: "Maximum results to return. Defaults to 20."},
					"language": {Type: "string", Description: "Restrict results to this language tag."},
				},
				Required: []string{"pattern"},
			},
		},
		{
			Name:        "analyze_file",
			Description: "Read a file and run the matching language analyzer over it, returning its extracted functions, structs, imports, exports, and calls.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"file_path":       {Type: "string", Description: "Path to the file to analyze."},
					"include_content": {Type: "boolean", Description: "Include the raw file content in the result. Defaults to false."},
				},
				Required: []string{"file_path"},
			},
		},
		{
			Name:        "get_dependencies",
			Description: "List the module paths a previously indexed file imports.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"file_path": {Type: "string", Description: "Path of a previously indexed file."},
				},
				Required: []string{"file_path"},
			},
		},
		{
			Name:        "find_callers",
			Description: "Find call sites that invoke a given function name.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"function_name": {Type: "string", Description: "Name of the function to find callers of."},
					"limit":         {Type: "integer", Description: "Maximum results to return. Defaults to 50."},
				},
				Required: []string{"function_name"},
			},
		},
		{
			Name:        "get_repository_tree",
			Description: "Summarize the indexed repository as a directory tree with per-directory and (optionally) per-file symbol counts.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"include_file_details": {Type: "boolean", Description: "Include per-file counts. Defaults to true."},
					"max_depth":            {Type: "integer", Description: "Limit directory depth. 0 (default) means unlimited."},
				},
			},
		},
	}
}
