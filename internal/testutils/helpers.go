package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteHost writes content to name inside a fresh temp directory and returns
// the absolute path. It fails the test immediately on error.
func WriteHost(t *testing.T, name, content string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join(t.TempDir(), name))
	require.NoError(t, err, "Failed to get absolute path for host file")
	require.NoError(t, os.WriteFile(absPath, []byte(content), 0644), "Failed to write host file")
	return absPath
}

// ReadHost returns the content of path. It fails the test immediately on error.
func ReadHost(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to read host file")
	return string(data)
}
