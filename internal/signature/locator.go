package signature

import (
	"fmt"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
	"github.com/aretw0/crank/pkg/ports"
)

// Region is a located pair. Start and End are 1-based line numbers of the
// marker lines; for block markers they point at the middle banner line.
type Region struct {
	Pair  Pair
	Start int
	End   int
}

// Find scans doc for the first occurrence of m.
func Find(doc ports.LineReader, m Marker) (int, bool) {
	want := m.Lines()
	for i := 0; i+len(want) <= doc.Len(); i++ {
		if matchAt(doc, i, want) {
			if m.Block {
				return i + 2, true
			}
			return i + 1, true
		}
	}
	return 0, false
}

func matchAt(doc ports.LineReader, i int, want []string) bool {
	for k, w := range want {
		if doc.Line(i+k) != normalize(w) {
			return false
		}
	}
	return true
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FindBlock locates the DSL block. A missing start marker yields
// domain.ErrNoDSL; a missing or misplaced end marker is fatal.
func FindBlock(doc ports.LineReader) (Region, error) {
	start, ok := Find(doc, DSL.Start)
	if !ok {
		return Region{}, domain.ErrNoDSL
	}
	end, ok := Find(doc, DSL.End)
	if !ok {
		return Region{}, &domain.SignatureError{Marker: DSL.End.Text, Reason: "end marker not found"}
	}
	if end <= start {
		return Region{}, &domain.SignatureError{Marker: DSL.End.Text, Line: end, Reason: fmt.Sprintf("end marker precedes start marker at line %d", start)}
	}
	return Region{Pair: DSL, Start: start, End: end}, nil
}

// Body returns the 0-based index range [from, to) of the lines between the
// markers of a single-line pair such as the DSL block.
func (r Region) Body() (from, to int) {
	return r.Start, r.End - 1
}

// FindRegion locates a generated region. It reports false without error when
// neither marker exists; a lone or misordered marker is fatal.
func FindRegion(doc ports.LineReader, p Pair) (Region, bool, error) {
	start, okStart := Find(doc, p.Start)
	end, okEnd := Find(doc, p.End)

	switch {
	case !okStart && !okEnd:
		return Region{}, false, nil
	case !okStart:
		return Region{}, false, &domain.SignatureError{Marker: p.Start.Text, Reason: "start marker missing while end marker exists"}
	case !okEnd:
		return Region{}, false, &domain.SignatureError{Marker: p.End.Text, Line: start, Reason: "end marker missing while start marker exists"}
	case start >= end:
		return Region{}, false, &domain.SignatureError{Marker: p.Start.Text, Line: start, Reason: fmt.Sprintf("start marker is not before end marker at line %d", end)}
	}
	return Region{Pair: p, Start: start, End: end}, true, nil
}

// Verify checks that either every marker of set exists or none does.
// It reports true when all are present and false when all are absent.
func Verify(doc ports.LineReader, set Set) (bool, error) {
	var found, missing []string
	for _, p := range set {
		for _, m := range []Marker{p.Start, p.End} {
			if _, ok := Find(doc, m); ok {
				found = append(found, m.Text)
			} else {
				missing = append(missing, m.Text)
			}
		}
	}
	switch {
	case len(missing) == 0:
		return true, nil
	case len(found) == 0:
		return false, nil
	}
	return false, &domain.SignatureError{
		Marker: strings.Join(missing, ", "),
		Reason: fmt.Sprintf("%d of %d signatures missing", len(missing), len(missing)+len(found)),
	}
}

// Create appends every region of set to the end of doc. Each region is
// preceded by a blank line and holds one blank line between its markers.
func Create(doc ports.Document, set Set) error {
	add := func(text string) error {
		return doc.Insert(doc.Len(), text)
	}
	for _, p := range set {
		lines := []string{""}
		lines = append(lines, p.Start.Lines()...)
		lines = append(lines, "")
		lines = append(lines, p.End.Lines()...)
		for _, l := range lines {
			if err := add(l); err != nil {
				return fmt.Errorf("failed to create signature %q: %w", p.Name, err)
			}
		}
	}
	return nil
}
