package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/registry"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// OverlayFromReport highlights the path a run took and where it stopped.
func OverlayFromReport(report *domain.RunReport) *GraphOverlay {
	if report == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedStates: report.Path,
		CurrentState:  report.Final,
	}
}

// FromRegistry renders every state of reg in insertion order.
func FromRegistry(reg *registry.Registry, overlay *GraphOverlay) string {
	return GenerateMermaid(reg.States(), reg.InitialState(), overlay)
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of states.
// It applies semantic styling:
// - Initial: ((Circle))
// - Terminal: ([Stadium])
// - Default: [Rectangle]
// Edges are labelled with their priority: the first ready target wins.
func GenerateMermaid(states []domain.State, initial string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range states {
		safeID := sanitizeMermaidID(state.Name)

		opener, closer := "[", "]"
		switch {
		case state.Name == initial:
			opener, closer = "((", "))"
		case state.Terminal():
			opener, closer = "([", "])"
		}

		text := escapeLabel(state.Name)
		if state.WaitBudget > 0 && !state.Terminal() {
			text = fmt.Sprintf("%s <br/> ⏱️ %s", text, state.WaitBudget)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, text, closer)

		for i, target := range state.Transitions {
			arrow := "-->"
			if len(state.Transitions) > 1 {
				arrow = fmt.Sprintf("-- \"%d\" -->", i+1)
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(target))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast on light fills regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !seen[safeID] && name != overlay.CurrentState {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

var idReplacer = strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", ":", "_")

func sanitizeMermaidID(id string) string {
	return idReplacer.Replace(id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
