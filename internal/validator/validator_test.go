package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crank/internal/compiler"
	"github.com/aretw0/crank/internal/validator"
	"github.com/aretw0/crank/pkg/domain"
)

func parse(t *testing.T, dsl string) *domain.Model {
	t.Helper()
	m, err := compiler.Parse(strings.Split(strings.TrimSpace(dsl), "\n"), 1, nil)
	require.NoError(t, err)
	return m
}

func TestLint_CleanModel(t *testing.T) {
	m := parse(t, `
[*] --> Idle
Idle --> Busy : EvWork
Busy --> Idle : EvDone
Busy --> [*] : EvQuit
`)
	assert.Empty(t, validator.Lint(m))
	assert.NoError(t, validator.Error(nil))
}

func TestLint_Findings(t *testing.T) {
	m := parse(t, `
[*] --> Idle
Idle --> Busy : EvWork
Idle --> Stuck : EvWork
Busy --> Idle : EvDone
Orphan --> Idle : EvDone
`)
	findings := validator.Lint(m)
	require.Len(t, findings, 3)

	assert.Equal(t, "Orphan: unreachable from Idle", findings[0].String())
	assert.Equal(t, validator.Finding{
		Line:    3,
		State:   "Idle",
		Message: "EvWork transition to Stuck is shadowed by an earlier unguarded one",
	}, findings[1])
	assert.Equal(t, "Stuck: no outbound transitions", findings[2].String())

	err := validator.Error(findings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 3 problems")
}

func TestLint_NoStartup(t *testing.T) {
	m := parse(t, `A --> B : Ev
B --> A : Ev`)
	findings := validator.Lint(m)
	require.Len(t, findings, 1)
	assert.Equal(t, "no startup state", findings[0].Message)
}
