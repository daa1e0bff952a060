package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "loregrep",
	Short:         "Repository indexing engine for LLM-driven coding tools",
	Long:          "loregrep indexes source code using tree-sitter, building an in-memory structural map queryable through a small set of named tools.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(queryCmd)
}
