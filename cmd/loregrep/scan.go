package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/loregrep"
)

var flagLanguages string
var flagMaxFiles int

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory and print a ScanResult summary",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. rust,go)")
	scanCmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "maximum indexed files (0 = unlimited)")
}

func runScan(cmd *cobra.Command, args []string) error {
	target, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := engine.Scan(cmd.Context(), target)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Scanned %s in %s\n", target, time.Since(start).Round(time.Millisecond))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func buildEngine() (*loregrep.Engine, error) {
	b := loregrep.NewBuilder().WithMaxFiles(flagMaxFiles)
	if flagLanguages != "" {
		langs := strings.Split(flagLanguages, ",")
		for i := range langs {
			langs[i] = strings.TrimSpace(langs[i])
		}
		b = b.WithLanguages(langs...)
	}
	return b.Build()
}

func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the static list of tool schemas",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(engine.GetToolDefinitions())
}
