package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/crank/internal/compiler"
	"github.com/aretw0/crank/internal/presentation/graph"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barber = `
[*] --> Sleeping
Sleeping --> Cutting : EvCustomer / StartCut
Cutting --> Cutting : EvDone [GetWaitingCustomer] / StartCut
Cutting --> Sleeping : EvDone [!GetWaitingCustomer]
Cutting --> [*] : EvClose [Stopping]
Cutting : enter : Sharpen
Sleeping : do : Snore
`

func parse(t *testing.T, dsl string) *domain.Model {
	t.Helper()
	m, err := compiler.Parse(strings.Split(dsl, "\n"), 1, nil)
	require.NoError(t, err)
	return m
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(parse(t, barber), nil)

	assert.True(t, strings.HasPrefix(out, "stateDiagram-v2\n"))
	for _, want := range []string{
		"    [*] --> Sleeping\n",
		"    Sleeping --> Cutting : EvCustomer / StartCut\n",
		"    Cutting --> Sleeping : EvDone [!GetWaitingCustomer]\n",
		"    Cutting --> [*] : EvClose [Stopping]\n",
		"    Cutting : enter / Sharpen\n",
		"    Sleeping : do / Snore\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(parse(t, barber), &graph.Overlay{
		VisitedStates: []string{"Sleeping", "Cutting", "Sleeping", domain.InitialState},
		CurrentState:  "Cutting",
	})

	assert.Contains(t, out, "classDef visited")
	assert.Contains(t, out, "classDef current")
	assert.Equal(t, 1, strings.Count(out, "class Sleeping visited"))
	assert.Contains(t, out, "class Cutting current")
	assert.NotContains(t, out, "class InitialState")
}

func TestGeneratePlantUML_RoundTrip(t *testing.T) {
	src := parse(t, barber)
	out := graph.GeneratePlantUML(src)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "@startuml", lines[0])
	require.Equal(t, "@enduml", lines[len(lines)-1])

	back := parse(t, strings.Join(lines[1:len(lines)-1], "\n"))
	assert.Equal(t, src.States, back.States)
	assert.Equal(t, src.Events, back.Events)
	assert.Equal(t, src.Startup, back.Startup)
	assert.Equal(t, src.Hooks, back.Hooks)
	assert.Equal(t, src.Functions(), back.Functions())
	require.Len(t, back.Transitions, len(src.Transitions))
	for i := range src.Transitions {
		assert.Equal(t, src.Transitions[i].From, back.Transitions[i].From)
		assert.Equal(t, src.Transitions[i].To, back.Transitions[i].To)
		assert.Equal(t, src.Transitions[i].Guard.Key(), back.Transitions[i].Guard.Key())
		assert.Equal(t, src.Transitions[i].Action, back.Transitions[i].Action)
	}
}
