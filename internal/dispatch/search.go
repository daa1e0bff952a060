package dispatch

import (
	"context"
	"encoding/json"

	"github.com/jward/loregrep/internal/model"
)

type searchInput struct {
	Pattern  string `json:"pattern"`
	Limit    *int   `json:"limit"`
	Language string `json:"language"`
}

func (s searchInput) limitOrDefault(def int) int {
	if s.Limit == nil {
		return def
	}
	return *s.Limit
}

// searchResponse is the shared payload shape for search_functions and
// search_structs, per spec §6: {status, pattern, results, count}.
type searchResponse[T any] struct {
	Status  string `json:"status"`
	Pattern string `json:"pattern"`
	Results []T    `json:"results"`
	Count   int    `json:"count"`
}

func handleSearchFunctions(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in searchInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("search_functions", err.Error())
	}

	result := d.repo.FindFunctionsByLanguage(in.Pattern, in.limitOrDefault(20), false, in.Language)
	return model.ToolResult{
		Success: true,
		Data: searchResponse[model.FunctionSignature]{
			Status:  "success",
			Pattern: in.Pattern,
			Results: result.Items,
			Count:   len(result.Items),
		},
	}
}

func handleSearchStructs(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in searchInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("search_structs", err.Error())
	}

	result := d.repo.FindStructsByLanguage(in.Pattern, in.limitOrDefault(20), false, in.Language)
	return model.ToolResult{
		Success: true,
		Data: searchResponse[model.StructSignature]{
			Status:  "success",
			Pattern: in.Pattern,
			Results: result.Items,
			Count:   len(result.Items),
		},
	}
}
