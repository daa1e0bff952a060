package dispatch

import (
	"context"
	"encoding/json"
	stdpath "path"
	"sort"
	"strings"

	"github.com/jward/loregrep/internal/model"
)

type getRepositoryTreeInput struct {
	IncludeFileDetails *bool `json:"include_file_details"`
	MaxDepth           int   `json:"max_depth"`
}

type fileDetail struct {
	Path               string `json:"path"`
	Language           string `json:"language"`
	Functions          int    `json:"functions"`
	Structs            int    `json:"structs"`
	Imports            int    `json:"imports"`
	Exports            int    `json:"exports"`
	EstimatedLineCount int    `json:"estimated_line_count"`
}

type treeStructure struct {
	Directories    map[string][]string `json:"directories"`
	DirectoryStats map[string][2]int   `json:"directory_stats"`
	FileDetails    []fileDetail        `json:"file_details,omitempty"`
}

type getRepositoryTreeResponse struct {
	Status           string                `json:"status"`
	TotalFiles       int                   `json:"total_files"`
	TotalDirectories int                   `json:"total_directories"`
	Metadata         model.RepoMapMetadata `json:"metadata"`
	TreeStructure    treeStructure         `json:"tree_structure"`
}

func handleGetRepositoryTree(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in getRepositoryTreeInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("get_repository_tree", err.Error())
	}
	includeDetails := true
	if in.IncludeFileDetails != nil {
		includeDetails = *in.IncludeFileDetails
	}

	files := d.repo.All()
	sort.Slice(files, func(i, j int) bool { return files[i].FilePath < files[j].FilePath })

	directories := make(map[string][]string)
	fileCounts := make(map[string]int)
	lineCounts := make(map[string]int)
	var details []fileDetail

	for _, fa := range files {
		dir := dirFor(fa.FilePath, in.MaxDepth)
		name := stdpath.Base(fa.FilePath)
		directories[dir] = append(directories[dir], name)

		lines := estimatedLineCount(fa)
		fileCounts[dir]++
		lineCounts[dir] += lines

		if includeDetails {
			details = append(details, fileDetail{
				Path:               fa.FilePath,
				Language:           fa.Language,
				Functions:          len(fa.Functions),
				Structs:            len(fa.Structs),
				Imports:            len(fa.Imports),
				Exports:            len(fa.Exports),
				EstimatedLineCount: lines,
			})
		}
	}

	stats := make(map[string][2]int, len(fileCounts))
	for dir, count := range fileCounts {
		stats[dir] = [2]int{count, lineCounts[dir]}
	}

	return model.ToolResult{
		Success: true,
		Data: getRepositoryTreeResponse{
			Status:           "success",
			TotalFiles:       len(files),
			TotalDirectories: len(directories),
			Metadata:         d.repo.Metadata(),
			TreeStructure: treeStructure{
				Directories:    directories,
				DirectoryStats: stats,
				FileDetails:    details,
			},
		},
	}
}

// dirFor returns the directory component of path, truncated to maxDepth
// segments when maxDepth > 0 so deeper files are grouped under their
// depth-limited ancestor.
func dirFor(path string, maxDepth int) string {
	dir := stdpath.Dir(path)
	if dir == "." {
		dir = ""
	}
	if maxDepth <= 0 || dir == "" {
		return dir
	}
	segs := strings.Split(dir, "/")
	if len(segs) > maxDepth {
		segs = segs[:maxDepth]
	}
	return strings.Join(segs, "/")
}

// estimatedLineCount approximates a file's line count from the furthest
// end_line among its extracted functions and structs; RepoMap does not
// retain raw source, so this is the best signal available post-indexing.
func estimatedLineCount(fa model.FileAnalysis) int {
	max := 0
	for _, fn := range fa.Functions {
		if fn.EndLine > max {
			max = fn.EndLine
		}
	}
	for _, st := range fa.Structs {
		if st.EndLine > max {
			max = st.EndLine
		}
	}
	return max
}
