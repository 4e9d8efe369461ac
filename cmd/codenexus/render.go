package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/codenexus/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Orange

	codeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// renderResult formats a final result for the terminal.
func renderResult(r *models.FinalResult) string {
	var sb strings.Builder

	title := "Orchestration " + r.Status
	if r.MockMode {
		title += " " + mockStyle.Render("(mock mode)")
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	if r.RunID != "" {
		sb.WriteString(field("Run", r.RunID))
	}
	if plan := r.ExecutionPlan; plan != nil {
		sb.WriteString(field("Task type", string(plan.TaskType)))
		sb.WriteString(field("Complexity", string(plan.Complexity)))
		if plan.EstimatedTime != "" {
			sb.WriteString(field("Estimate", plan.EstimatedTime))
		}
	}
	sb.WriteString(field("Agents", strings.Join(r.AgentContributions, ", ")))
	if r.Language != "" {
		sb.WriteString(field("Language", r.Language))
	}

	for i, block := range r.Code {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("Code [%d/%d]", i+1, len(r.Code))))
		sb.WriteString("\n")
		sb.WriteString(codeStyle.Render(strings.TrimRight(block, "\n")))
		sb.WriteString("\n")
	}

	if r.Explanation != "" {
		sb.WriteString(headerStyle.Render("Explanation"))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(r.Explanation))
		sb.WriteString("\n")
	}

	if r.QualityReport != "" {
		sb.WriteString(headerStyle.Render("Quality report"))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(r.QualityReport))
		sb.WriteString("\n")
	}

	return sb.String()
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + valueStyle.Render(value) + "\n"
}
