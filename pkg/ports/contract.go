package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentContract verifies that a Document implementation honours the
// indexing rules the locator and the patcher rely on. newDoc must return a
// document holding exactly the given lines.
func RunDocumentContract(t *testing.T, newDoc func(lines []string) Document) {
	t.Run("Normalized Reads", func(t *testing.T) {
		doc := newDoc([]string{"  x \t  y  ", "z"})
		require.Equal(t, 2, doc.Len())
		assert.Equal(t, "x y", doc.Line(0))
		assert.Equal(t, "  x \t  y  ", doc.Raw(0))
		assert.Equal(t, "", doc.Line(2))
	})

	t.Run("Insert Is Zero Based", func(t *testing.T) {
		doc := newDoc([]string{"a", "c"})
		require.NoError(t, doc.Insert(1, "b"))
		require.NoError(t, doc.Insert(3, "d"))
		assert.Equal(t, []string{"a", "b", "c", "d"}, rawLines(doc))
	})

	t.Run("Delete Is One Based", func(t *testing.T) {
		doc := newDoc([]string{"a", "b", "c"})
		require.NoError(t, doc.Delete(1))
		assert.Equal(t, []string{"b", "c"}, rawLines(doc))
		require.NoError(t, doc.Delete(2))
		assert.Equal(t, []string{"b"}, rawLines(doc))
		assert.Error(t, doc.Delete(0))
		assert.Error(t, doc.Delete(2))
	})
}

func rawLines(doc LineReader) []string {
	out := make([]string, doc.Len())
	for i := range out {
		out[i] = doc.Raw(i)
	}
	return out
}
