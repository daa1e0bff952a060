package dispatch

import (
	"context"
	"encoding/json"

	"github.com/jward/loregrep/internal/model"
)

type getDependenciesInput struct {
	FilePath string `json:"file_path"`
}

type getDependenciesResponse struct {
	Status       string   `json:"status"`
	FilePath     string   `json:"file_path"`
	Dependencies []string `json:"dependencies"`
	Count        int      `json:"count"`
}

func handleGetDependencies(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in getDependenciesInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("get_dependencies", err.Error())
	}
	if in.FilePath == "" {
		return invalidInput("get_dependencies", "file_path is required")
	}

	deps := d.repo.GetFileDependencies(in.FilePath)
	return model.ToolResult{
		Success: true,
		Data: getDependenciesResponse{
			Status:       "success",
			FilePath:     in.FilePath,
			Dependencies: deps,
			Count:        len(deps),
		},
	}
}
