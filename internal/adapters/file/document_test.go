package file_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aretw0/crank/internal/adapters/file"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/aretw0/crank/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestOpen_SplitsLines(t *testing.T) {
	path := writeTemp(t, "package main\r\n\n  a   b  \n")
	doc, err := file.Open(path)
	require.NoError(t, err)

	assert.Equal(t, 3, doc.Len())
	assert.Equal(t, "package main", doc.Raw(0))
	assert.Equal(t, "", doc.Raw(1))
	assert.Equal(t, "  a   b  ", doc.Raw(2))
	assert.Equal(t, "a b", doc.Line(2))
	assert.Equal(t, "", doc.Line(99))
	assert.False(t, doc.Changed())
}

func TestOpen_Missing(t *testing.T) {
	_, err := file.Open(filepath.Join(t.TempDir(), "ghost.go"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDocument_InsertZeroBasedDeleteOneBased(t *testing.T) {
	doc := file.New("x.go", []string{"a", "b", "c"})

	require.NoError(t, doc.Insert(1, "inserted"))
	assert.Equal(t, []string{"a", "inserted", "b", "c"}, doc.Lines())

	// 1-based: line 2 is "inserted"
	require.NoError(t, doc.Delete(2))
	assert.Equal(t, []string{"a", "b", "c"}, doc.Lines())
	assert.False(t, doc.Changed())

	require.NoError(t, doc.Insert(3, "tail"))
	assert.Equal(t, "tail", doc.Raw(3))
	assert.True(t, doc.Changed())

	assert.Error(t, doc.Delete(0))
	assert.Error(t, doc.Delete(5))
	assert.Error(t, doc.Insert(-1, "x"))
	assert.Error(t, doc.Insert(6, "x"))
}

func TestDocument_Write(t *testing.T) {
	path := writeTemp(t, "one\ntwo")
	doc, err := file.Open(path)
	require.NoError(t, err)

	require.NoError(t, doc.Insert(2, "three"))
	require.NoError(t, doc.Write())
	assert.False(t, doc.Changed())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestDocument_WriteReplacesExistingFile(t *testing.T) {
	path := writeTemp(t, "one")
	require.NoError(t, os.Chmod(path, 0600))

	for _, line := range []string{"two", "three"} {
		t.Run(line, func(t *testing.T) {
			doc, err := file.Open(path)
			require.NoError(t, err)
			require.NoError(t, doc.Insert(doc.Len(), line))
			require.NoError(t, doc.Write())

			info, err := os.Stat(path)
			require.NoError(t, err)
			if runtime.GOOS != "windows" {
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			}
			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", string(data))
}

func TestBackup_FirstUnusedSuffix(t *testing.T) {
	path := writeTemp(t, "original\n")

	first, err := file.Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".000", first)

	second, err := file.Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".001", second)

	require.NoError(t, os.Remove(first))
	third, err := file.Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path+".000", third)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(data))
}

func TestBackupName(t *testing.T) {
	assert.Equal(t, "a.go.007", file.BackupName("a.go", 7))
}

func TestDocument_Contract(t *testing.T) {
	ports.RunDocumentContract(t, func(lines []string) ports.Document {
		return file.New("contract.go", lines)
	})
}
