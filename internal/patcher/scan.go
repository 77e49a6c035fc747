package patcher

import (
	"regexp"
	"sort"

	"github.com/aretw0/crank/pkg/ports"
)

var reFuncDecl = regexp.MustCompile(`^func (?:\([^)]*\) ?)?([a-zA-Z_][a-zA-Z0-9_]*) ?\(`)

// FunctionSet is the set of function and method names declared in a document.
type FunctionSet map[string]struct{}

// Has reports whether name is declared.
func (s FunctionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the declared names sorted.
func (s FunctionSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ScanFunctions collects every top-level func and method declaration.
// Receivers are ignored, so a method and a function of the same name count once.
func ScanFunctions(doc ports.LineReader) FunctionSet {
	set := make(FunctionSet)
	for i := 0; i < doc.Len(); i++ {
		if m := reFuncDecl.FindStringSubmatch(doc.Line(i)); m != nil {
			set[m[1]] = struct{}{}
		}
	}
	return set
}
