package main

import (
	"os"

	"github.com/spf13/cobra"
)

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "codenexus",
	Short: "Multi-agent code generation service",
	Long: `codenexus turns a natural-language request into generated code by
running a team of specialized agents against Anthropic models on AWS Bedrock.

A supervisor plans the work, specialists (generator, testing, security,
performance, documentation, architecture, debugging) execute it in order,
and the supervisor integrates and reviews the combined result.

Without AWS credentials in the environment every command runs in mock mode
and returns canned output.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(orchestrateCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
