package validator

import (
	"fmt"

	"github.com/aretw0/waypoint/pkg/registry"
)

// ValidateGraph checks for broken links and unreachable states starting from
// the initial state. Broken links are returned as an error (every one of them,
// see registry.ValidateAll); unreachable states are only warnings.
func ValidateGraph(reg *registry.Registry) (warnings []string, err error) {
	for _, name := range Unreachable(reg) {
		warnings = append(warnings, fmt.Sprintf("state %q is unreachable from %q", name, reg.InitialState()))
	}
	return warnings, reg.ValidateAll()
}

// Unreachable crawls the graph from the initial state and returns, in
// insertion order, the declared states it never reaches.
func Unreachable(reg *registry.Registry) []string {
	visited := make(map[string]bool)
	queue := []string{reg.InitialState()}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		state, ok := reg.State(current)
		if !ok {
			// Dangling; reported by ValidateAll.
			continue
		}
		visited[current] = true

		for _, target := range state.Transitions {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}

	var out []string
	for _, name := range reg.Names() {
		if !visited[name] {
			out = append(out, name)
		}
	}
	return out
}
