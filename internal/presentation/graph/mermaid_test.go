package graph_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waypoint/internal/presentation/graph"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		states      []domain.State
		initial     string
		contains    []string
		notContains []string
	}{
		{
			name:    "Initial And Terminal Shapes",
			states:  []domain.State{{Name: "init", Transitions: []string{"done"}}, {Name: "done"}},
			initial: "init",
			contains: []string{
				"init((\"init\"))",
				"done([\"done\"])",
				"init --> done",
			},
		},
		{
			name:     "Default Shape",
			states:   []domain.State{{Name: "login", Transitions: []string{"home"}}},
			contains: []string{"login[\"login\"]"},
		},
		{
			name: "Wait Budget Annotation",
			states: []domain.State{
				{Name: "login", Transitions: []string{"home"}, WaitBudget: 5 * time.Second},
				{Name: "home", WaitBudget: time.Second},
			},
			contains:    []string{"login[\"login <br/> ⏱️ 5s\"]"},
			notContains: []string{"⏱️ 1s"},
		},
		{
			name:    "Priority Labels",
			states:  []domain.State{{Name: "login", Transitions: []string{"mfa", "home"}}},
			initial: "login",
			contains: []string{
				"login -- \"1\" --> mfa",
				"login -- \"2\" --> home",
			},
		},
		{
			name:     "Sanitized IDs",
			states:   []domain.State{{Name: "auth/sign-in", Transitions: []string{"my.home"}}},
			contains: []string{"auth_sign_in[\"auth/sign-in\"]", "auth_sign_in --> my_home"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.states, tt.initial, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestFromRegistry_WithOverlay(t *testing.T) {
	b := dsl.New()
	b.Add("init").Go("login")
	b.Add("login").Go("home")
	b.Add("home")
	reg, err := b.Build()
	require.NoError(t, err)

	report := &domain.RunReport{Initial: "init", Final: "login", Path: []string{"init", "login"}}
	got := graph.FromRegistry(reg, graph.OverlayFromReport(report))

	assert.Contains(t, got, "init((\"init\"))")
	assert.Contains(t, got, "class init visited;")
	assert.Contains(t, got, "class login current;")
	assert.NotContains(t, got, "class login visited;")
	assert.NotContains(t, got, "class home")
	assert.Less(t, strings.Index(got, "init(("), strings.Index(got, "login["))
}

func TestOverlayFromReport_Nil(t *testing.T) {
	assert.Nil(t, graph.OverlayFromReport(nil))
}
