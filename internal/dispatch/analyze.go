package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jward/loregrep/internal/model"
	"github.com/jward/loregrep/internal/parser"
)

type analyzeFileInput struct {
	FilePath       string `json:"file_path"`
	IncludeContent bool   `json:"include_content"`
}

// analyzeFileErrorResponse is the analyze_file-specific error shape:
// spec §6 calls out this tool as the one where success=false pairs with
// data.status == "error" rather than the top-level error field.
type analyzeFileErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type analyzeFileResponse struct {
	Status   string             `json:"status"`
	Analysis model.FileAnalysis `json:"analysis"`
	Content  string             `json:"content,omitempty"`
}

func handleAnalyzeFile(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in analyzeFileInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("analyze_file", err.Error())
	}
	if in.FilePath == "" {
		return invalidInput("analyze_file", "file_path is required")
	}

	content, err := d.readFile(in.FilePath)
	if err != nil {
		return model.ToolResult{
			Success: false,
			Data: analyzeFileErrorResponse{
				Status: "error",
				Error:  fmt.Sprintf("Failed to read file: %v", err),
			},
		}
	}

	lang, known := parser.LanguageForFile(in.FilePath)
	if !known {
		return model.ToolResult{
			Success: false,
			Data: analyzeFileErrorResponse{
				Status: "error",
				Error:  fmt.Sprintf("Unsupported file type: %s", in.FilePath),
			},
		}
	}

	an, ok := d.analyzers.For(lang)
	if !ok {
		return model.ToolResult{
			Success: false,
			Data: analyzeFileErrorResponse{
				Status: "error",
				Error:  fmt.Sprintf("No analyzer registered for language: %s", lang),
			},
		}
	}

	fa, err := an.Analyze(ctx, content, in.FilePath)
	if err != nil {
		return model.ToolResult{
			Success: false,
			Data: analyzeFileErrorResponse{
				Status: "error",
				Error:  fmt.Sprintf("Analysis failed: %v", err),
			},
		}
	}
	fa.ContentHash = model.ContentHash(content)

	resp := analyzeFileResponse{Status: "success", Analysis: *fa}
	if in.IncludeContent {
		resp.Content = string(content)
	}
	return model.ToolResult{Success: true, Data: resp}
}
