package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/codenexus/internal/agents"
	"github.com/ShayCichocki/codenexus/internal/api"
	"github.com/ShayCichocki/codenexus/pkg/models"
)

var agentsJSON bool

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the built-in agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := agents.Default()
		if err != nil {
			return fmt.Errorf("load agent registry: %w", err)
		}
		if agentsJSON {
			return writeJSON(cmd.OutOrStdout(), registry.Info())
		}
		printAgents(cmd.OutOrStdout(), registry.List())
		return nil
	},
}

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	RunE: func(cmd *cobra.Command, args []string) error {
		list := api.DefaultCatalog().Models()
		if modelsJSON {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		printModels(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	agentsCmd.Flags().BoolVar(&agentsJSON, "json", false, "Print as JSON")
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "Print as JSON")
}

func printAgents(w io.Writer, defs []models.AgentDefinition) {
	id := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	for _, a := range defs {
		fmt.Fprintf(w, "%s %s\n", id.Sprintf("%-20s", a.ID), a.Role)
		fmt.Fprintf(w, "  %s\n", a.Goal)
		if len(a.Capabilities) > 0 {
			fmt.Fprintf(w, "  %s\n", dim.Sprint(strings.Join(a.Capabilities, ", ")))
		}
	}
}

func printModels(w io.Writer, list []api.ModelInfo) {
	id := color.New(color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, m := range list {
		marker := " "
		if m.ID == api.DefaultModel {
			marker = color.GreenString("*")
		}
		fmt.Fprintf(w, "%s %s %s %s\n", marker, id.Sprintf("%-24s", m.ID), m.Name, dim.Sprintf("(%s)", m.Provider))
	}
}
