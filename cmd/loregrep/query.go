package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <path> <tool> [json-input]",
	Short: "Scan a directory, then execute one named tool against the result",
	Long:  "Convenience command for one-shot use: scans path, then routes json-input (default \"{}\") through execute_tool as if it were a long-running Engine.",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	target, err := resolveTargetDir(args[:1])
	if err != nil {
		return err
	}
	tool := args[1]
	input := "{}"
	if len(args) == 3 {
		input = args[2]
	}
	if !json.Valid([]byte(input)) {
		return fmt.Errorf("json-input is not valid JSON: %s", input)
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}
	if _, err := engine.Scan(cmd.Context(), target); err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	result := engine.ExecuteTool(cmd.Context(), tool, json.RawMessage(input))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
