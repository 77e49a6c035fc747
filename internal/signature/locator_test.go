package signature_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/crank/internal/adapters/file"
	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPair = signature.NewPair("main", "MAIN START - DO NOT MODIFY", "MAIN END - DO NOT MODIFY")

func TestMarker_Lines(t *testing.T) {
	lines := signature.NewBlock("USER STATE CODE START").Lines()
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Len(t, l, signature.Width)
	}
	assert.Equal(t, "// "+strings.Repeat("=", 77), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "// ========== USER STATE CODE START ="))
	assert.Equal(t, lines[0], lines[2])

	assert.Equal(t, []string{"@startuml"}, signature.DSL.Start.Lines())
}

func TestFind_ReturnsMiddleLine(t *testing.T) {
	lines := []string{"package main", ""}
	lines = append(lines, testPair.Start.Lines()...)
	doc := file.New("x.go", lines)

	n, ok := signature.Find(doc, testPair.Start)
	require.True(t, ok)
	assert.Equal(t, 4, n, "1-based index of the banner middle line")
	assert.Equal(t, signature.Width, len(doc.Raw(n-1)))
}

func TestFind_IgnoresIndentation(t *testing.T) {
	doc := file.New("x.go", []string{"/*", "    @startuml", "  A --> B : Ev", "    @enduml  ", "*/"})
	r, err := signature.FindBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Start)
	assert.Equal(t, 4, r.End)

	from, to := r.Body()
	assert.Equal(t, 2, from)
	assert.Equal(t, 3, to)
}

func TestFindBlock_Errors(t *testing.T) {
	_, err := signature.FindBlock(file.New("x.go", []string{"package main"}))
	assert.True(t, errors.Is(err, domain.ErrNoDSL))

	_, err = signature.FindBlock(file.New("x.go", []string{"@startuml", "A --> B : Ev"}))
	assert.True(t, errors.Is(err, domain.ErrSignature))

	_, err = signature.FindBlock(file.New("x.go", []string{"@enduml", "@startuml"}))
	assert.True(t, errors.Is(err, domain.ErrSignature))
}

func TestFindRegion(t *testing.T) {
	t.Run("None Is Benign", func(t *testing.T) {
		_, ok, err := signature.FindRegion(file.New("x.go", []string{"a"}), testPair)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Half Pair Is Fatal", func(t *testing.T) {
		doc := file.New("x.go", testPair.Start.Lines())
		_, _, err := signature.FindRegion(doc, testPair)
		assert.True(t, errors.Is(err, domain.ErrSignature))
	})

	t.Run("Misordered Is Fatal", func(t *testing.T) {
		lines := append(testPair.End.Lines(), testPair.Start.Lines()...)
		_, _, err := signature.FindRegion(file.New("x.go", lines), testPair)
		assert.True(t, errors.Is(err, domain.ErrSignature))
	})

	t.Run("Both", func(t *testing.T) {
		lines := append(testPair.Start.Lines(), "")
		lines = append(lines, testPair.End.Lines()...)
		r, ok, err := signature.FindRegion(file.New("x.go", lines), testPair)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, r.Start)
		assert.Equal(t, 6, r.End)
	})
}

func TestVerifyAndCreate(t *testing.T) {
	set := signature.Set{
		testPair,
		signature.NewPair("user", "USER START", "USER END"),
	}
	doc := file.New("x.go", []string{"package main"})

	all, err := signature.Verify(doc, set)
	require.NoError(t, err)
	assert.False(t, all)

	require.NoError(t, signature.Create(doc, set))
	assert.Equal(t, 1+2*8, doc.Len())

	all, err = signature.Verify(doc, set)
	require.NoError(t, err)
	assert.True(t, all)

	// Drop the last banner: some but not all markers remain.
	for i := 0; i < 3; i++ {
		require.NoError(t, doc.Delete(doc.Len()))
	}
	_, err = signature.Verify(doc, set)
	assert.True(t, errors.Is(err, domain.ErrSignature))
}
