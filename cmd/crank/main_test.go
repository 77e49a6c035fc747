package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/testutils"
)

const door = `package door

/*
@startuml
[*] --> Closed
Closed --> Open : EvOpen
Open --> Closed : EvClose [Clear] / Latch
Open : enter : Beep
@enduml
*/
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDoor(t *testing.T) string {
	t.Helper()
	path := testutils.WriteHost(t, "door.go", door)
	chdir(t, filepath.Dir(path))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "crank version "+crank.Version+"\n", out)
}

func TestGen_RootAliasAndIdempotence(t *testing.T) {
	path := writeDoor(t)

	out, err := execute(t, "--no-backup", path)
	require.NoError(t, err)
	assert.Contains(t, out, "GEN  "+path+" (tabular, stubs: Clear Latch Open_Beep)")
	assert.Contains(t, out, "1 file(s): 1 regenerated, 0 skipped, 0 failed")
	assert.NoFileExists(t, path+".000")

	out, err = execute(t, "gen", path)
	require.NoError(t, err)
	assert.Contains(t, out, " OK  "+path+" (tabular, up to date)")
}

func TestGen_FailureReturnsError(t *testing.T) {
	writeDoor(t)
	out, err := execute(t, "gen", "missing.go")
	require.Error(t, err)
	assert.Contains(t, out, "FAIL missing.go")
}

func TestGen_RejectsQuietAndVerbose(t *testing.T) {
	path := writeDoor(t)
	_, err := execute(t, "-q", "-v", path)
	assert.Error(t, err)
}

func TestValidate_DoesNotWrite(t *testing.T) {
	path := writeDoor(t)
	out, err := execute(t, "validate", "--style", "switch", path)
	require.NoError(t, err)
	assert.Equal(t, " OK  "+path+" (switch, 2 states, 2 events, 2 transitions)\n", out)

	assert.Equal(t, door, testutils.ReadHost(t, path))
}

func TestValidate_Strict(t *testing.T) {
	path := testutils.WriteHost(t, "stuck.go", "/*\n@startuml\n[*] --> A\nA --> B : Ev\n@enduml\n*/\n")
	chdir(t, filepath.Dir(path))

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: B: no outbound transitions")

	out, err = execute(t, "validate", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+path)
}

func TestGraph(t *testing.T) {
	path := writeDoor(t)

	out, err := execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")

	out, err = execute(t, "graph", "--format", "plantuml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "@startuml")

	_, err = execute(t, "graph", "--format", "dot", path)
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := writeDoor(t)
	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "Startup state: **Closed**")
}

func TestRun(t *testing.T) {
	path := writeDoor(t)
	out, err := execute(t, "run", path, "-e", "EvOpen", "-e", "EvClose", "-g", "Clear=false")
	require.NoError(t, err)
	assert.Equal(t, "start: Closed\n"+
		"  enter  Open_Beep\n"+
		"EvOpen: Closed -> Open\n"+
		"  guard  Clear = false\n"+
		"EvClose: rejected in Open\n"+
		"end: Open\n", out)

	_, err = execute(t, "run", path, "-e", "EvNope")
	assert.Error(t, err)

	_, err = execute(t, "run", path, "--journal")
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
