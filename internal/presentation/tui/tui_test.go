package tui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/compiler"
	"github.com/aretw0/crank/internal/presentation/tui"
)

const dsl = `
[*] --> Idle
Idle --> Busy : EvWork [CanWork || Forced] / StartWork
Idle --> Busy : EvWork
Busy --> [*] : EvStop
Busy : exit : Cleanup
`

func TestReport(t *testing.T) {
	m, err := compiler.Parse(strings.Split(dsl, "\n"), 1, nil)
	require.NoError(t, err)

	out := tui.Report("worker.go", m)
	assert.True(t, strings.HasPrefix(out, "# worker.go\n"))
	assert.Contains(t, out, "Startup state: **Idle**")
	assert.Contains(t, out, "| 2 | Busy | - | - | Busy_Cleanup |")
	assert.Contains(t, out, "| 1 | EvWork | Idle |")
	assert.Contains(t, out, "| Idle | EvWork | `CanWork \\|\\| Forced` | StartWork | Busy |")
	assert.Contains(t, out, "| Busy | EvStop | - | - | FinalState |")
	assert.Contains(t, out, "- `CanWork_OR_Forced` (guard)")
	assert.Contains(t, out, "- `Busy_Cleanup` (exit)")

	guarded := strings.Index(out, "`CanWork")
	unguarded := strings.Index(out, "| Idle | EvWork | - |")
	assert.Less(t, guarded, unguarded, "guarded transitions are listed first")
}

func TestStatusPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := tui.NewStatusPrinter(&buf, termenv.WithProfile(termenv.Ascii))

	results := []crank.Result{
		{Path: "a.go", Style: "tabular", Changed: true, Stubs: []string{"Go"}, Backup: "a.go.000"},
		{Path: "b.go", Style: "switch"},
		{Path: "c.go", Skipped: true},
		{Path: "d.go", Err: errors.New("boom")},
	}
	for _, r := range results {
		p.Print(r)
	}
	p.Summary(results)

	assert.Equal(t, strings.Join([]string{
		"GEN  a.go (tabular, stubs: Go, backup: a.go.000)",
		" OK  b.go (switch, up to date)",
		"SKIP c.go (no dsl block)",
		"FAIL d.go (boom)",
		"4 file(s): 1 regenerated, 1 skipped, 1 failed",
		"",
	}, "\n"), buf.String())
}

func TestWriteMarkdown_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.WriteMarkdown(&buf, "# title\n", false))
	assert.Equal(t, "# title\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "__ _ _ __")
}
