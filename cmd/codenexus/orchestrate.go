package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/codenexus/pkg/models"
)

var (
	orchIncludeTests       bool
	orchIncludeSecurity    bool
	orchIncludePerformance bool
	orchIncludeDocs        bool
	orchModel              string
	orchJSON               bool
)

var orchestrateCmd = &cobra.Command{
	Use:   "orchestrate <request>",
	Short: "Run one multi-agent orchestration and print the result",
	Long: `Run the full multi-agent pipeline in-process for a single request.

The supervisor plans the work, the planned agents execute in order, and the
integrated result is quality-checked before it is printed.

Examples:
  codenexus orchestrate "Build a todo list component"
  codenexus orchestrate --tests --security "REST API for user accounts"
  codenexus orchestrate --json --model claude-3-haiku "Fix this SQL query"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOrchestrate,
}

func init() {
	orchestrateCmd.Flags().BoolVar(&orchIncludeTests, "tests", false, "Include the testing agent")
	orchestrateCmd.Flags().BoolVar(&orchIncludeSecurity, "security", false, "Include the security agent")
	orchestrateCmd.Flags().BoolVar(&orchIncludePerformance, "performance", false, "Include the performance agent")
	orchestrateCmd.Flags().BoolVar(&orchIncludeDocs, "docs", false, "Include the documentation agent")
	orchestrateCmd.Flags().StringVarP(&orchModel, "model", "m", "", "Model key (see 'codenexus models')")
	orchestrateCmd.Flags().BoolVar(&orchJSON, "json", false, "Print the result as JSON")
}

func runOrchestrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.logUsage()

	request := strings.Join(args, " ")
	result, err := a.orchestrator.Orchestrate(cmd.Context(), request, models.Options{
		IncludeTests:       orchIncludeTests,
		IncludeSecurity:    orchIncludeSecurity,
		IncludePerformance: orchIncludePerformance,
		IncludeDocs:        orchIncludeDocs,
		Model:              orchModel,
	})
	if err != nil {
		return fmt.Errorf("orchestration failed: %w", err)
	}

	if orchJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderResult(result))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
