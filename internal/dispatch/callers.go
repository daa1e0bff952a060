package dispatch

import (
	"context"
	"encoding/json"

	"github.com/jward/loregrep/internal/model"
)

type findCallersInput struct {
	FunctionName string `json:"function_name"`
	Limit        *int   `json:"limit"`
}

type findCallersResponse struct {
	Status       string           `json:"status"`
	FunctionName string           `json:"function_name"`
	Callers      []model.CallSite `json:"callers"`
	Count        int              `json:"count"`
}

func handleFindCallers(ctx context.Context, d *Dispatcher, raw json.RawMessage) model.ToolResult {
	var in findCallersInput
	if err := decodeInput(raw, &in); err != nil {
		return invalidInput("find_callers", err.Error())
	}
	if in.FunctionName == "" {
		return invalidInput("find_callers", "function_name is required")
	}

	limit := 50
	if in.Limit != nil {
		limit = *in.Limit
	}

	result := d.repo.FindCallers(in.FunctionName, limit)
	return model.ToolResult{
		Success: true,
		Data: findCallersResponse{
			Status:       "success",
			FunctionName: in.FunctionName,
			Callers:      result.Items,
			Count:        len(result.Items),
		},
	}
}
