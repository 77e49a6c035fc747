package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/crank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "crank.yaml", `
files:
  - a.go
  - b.go
style: switch
debug: "true"
backup: false
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go"}, cfg.Files)
	assert.Equal(t, "switch", cfg.Style)
	assert.True(t, cfg.Debug, "weakly typed input")
	require.NotNil(t, cfg.Backup)
	assert.False(t, *cfg.Backup)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "crank.json", `{"files": ["x.go"], "verbose": true}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.go"}, cfg.Files)
	assert.True(t, cfg.Verbose)
	assert.Nil(t, cfg.Backup)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown key", "c.yaml", "colour: red\n"},
		{"bad yaml", "c.yaml", "files: [\n"},
		{"bad json", "c.json", "{"},
		{"verbose and quiet", "c.yaml", "verbose: true\nquiet: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_MissingDefaultIsEmpty(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Discover("")
	require.NoError(t, err)
	assert.Equal(t, &config.Config{}, cfg)

	require.NoError(t, os.WriteFile(config.DefaultPath, []byte("style: switch\n"), 0644))
	cfg, err = config.Discover("")
	require.NoError(t, err)
	assert.Equal(t, "switch", cfg.Style)
}

func TestMerge(t *testing.T) {
	no := false
	tests := []struct {
		name  string
		file  *config.Config
		flags config.Flags
		want  config.Settings
	}{
		{
			name: "defaults",
			file: nil,
			want: config.Settings{Style: "tabular", Backup: true},
		},
		{
			name:  "debug from either source",
			file:  &config.Config{Debug: true},
			flags: config.Flags{},
			want:  config.Settings{Debug: true, Style: "tabular", Backup: true},
		},
		{
			name:  "quiet flag overrides verbose file",
			file:  &config.Config{Verbose: true},
			flags: config.Flags{Quiet: true},
			want:  config.Settings{Quiet: true, Style: "tabular", Backup: true},
		},
		{
			name:  "verbose flag overrides quiet file",
			file:  &config.Config{Quiet: true},
			flags: config.Flags{Verbose: true},
			want:  config.Settings{Verbose: true, Style: "tabular", Backup: true},
		},
		{
			name:  "file verbosity kept without flags",
			file:  &config.Config{Quiet: true},
			want:  config.Settings{Quiet: true, Style: "tabular", Backup: true},
		},
		{
			name:  "files are an ordered union",
			file:  &config.Config{Files: []string{"b.go", "c.go"}},
			flags: config.Flags{Files: []string{"a.go", "b.go"}},
			want:  config.Settings{Files: []string{"a.go", "b.go", "c.go"}, Style: "tabular", Backup: true},
		},
		{
			name:  "style flag wins",
			file:  &config.Config{Style: "switch"},
			flags: config.Flags{Style: "tabular"},
			want:  config.Settings{Style: "tabular", Backup: true},
		},
		{
			name: "style and backup from file",
			file: &config.Config{Style: "switch", Backup: &no},
			want: config.Settings{Style: "switch", Backup: false},
		},
		{
			name:  "no-backup flag",
			flags: config.Flags{NoBackup: true},
			want:  config.Settings{Style: "tabular", Backup: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.Merge(tt.file, tt.flags))
		})
	}
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
