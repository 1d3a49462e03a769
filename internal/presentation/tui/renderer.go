package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// ReportMarkdown summarizes a run as a markdown document.
func ReportMarkdown(name string, report *domain.RunReport, runErr error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Run %s\n\n", name)

	status := "terminated"
	if runErr != nil {
		status = "failed"
	}
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Status | %s |\n", status)
	if report != nil {
		fmt.Fprintf(&sb, "| Initial | `%s` |\n", report.Initial)
		fmt.Fprintf(&sb, "| Final | `%s` |\n", report.Final)
		fmt.Fprintf(&sb, "| Transitions | %d |\n", report.Transitions)
		fmt.Fprintf(&sb, "| Elapsed | %s |\n", report.Elapsed)
		sb.WriteString("\n## Path\n\n")
		for i, s := range report.Path {
			fmt.Fprintf(&sb, "%d. `%s`\n", i+1, s)
		}
	}
	if runErr != nil {
		fmt.Fprintf(&sb, "\n## Error\n\n%s\n", runErr)
	}
	return sb.String()
}
