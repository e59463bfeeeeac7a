package report

import (
	"strconv"
	"strings"

	"github.com/kaiwahq/kaiwa/internal/conversation"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

type IssueFormatter struct {
	headerStyle  lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
	okStyle      lipgloss.Style
}

func NewIssueFormatter() *IssueFormatter {
	red := lipgloss.Color("203")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")
	green := lipgloss.Color("78")

	return &IssueFormatter{
		headerStyle: lipgloss.NewStyle().
			Foreground(red).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(red),
		okStyle: lipgloss.NewStyle().
			Foreground(green).
			Bold(true),
	}
}

// FormatIssues renders validation issues as a table, one row per issue.
func (f *IssueFormatter) FormatIssues(issues []conversation.Issue) string {
	if len(issues) == 0 {
		return f.okStyle.Render("conversation is well-formed")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return f.headerStyle
			case row%2 == 0:
				return f.evenRowStyle
			default:
				return f.oddRowStyle
			}
		}).
		Headers("Index", "Kind", "Tool Call IDs", "Detail")

	for _, issue := range issues {
		t.Row(
			strconv.Itoa(issue.MessageIndex),
			string(issue.Kind),
			strings.Join(issue.ToolCallIDs, ", "),
			issue.Error(),
		)
	}

	return t.Render()
}
