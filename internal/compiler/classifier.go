package compiler

import (
	"regexp"
	"strings"

	"github.com/aretw0/crank/pkg/domain"
)

// Kind classifies a DSL line.
type Kind int

const (
	KindBlank Kind = iota
	KindStart
	KindEnd
	KindTransition
	KindHook
)

// Structural markers delimiting the DSL block.
const (
	StartMarker = "@startuml"
	EndMarker   = "@enduml"
)

// Directive is one classified DSL line. Shape is the 1-based index of the
// pattern that matched; it is 0 for blank and marker lines.
type Directive struct {
	Kind  Kind
	Shape int
	From  string // also the hook owner
	To    string
	Event string
	Guard string // raw guard text, canonicalized by the builder
	Func  string // action or hook function
	Hook  domain.HookKind
}

const (
	reState  = `(\[\*\]|[a-zA-Z_][a-zA-Z0-9_]*)`
	reIdent  = `([a-zA-Z_][a-zA-Z0-9_]*)`
	reFunc   = reIdent + `(?:\(\))?`
	reArrow  = ` ?--> ?`
	reColon  = ` ?: ?`
	reGuard  = ` ?\[([^\]]+)\]`
	reAction = ` ?/ ?` + reFunc
)

type shape struct {
	re    *regexp.Regexp
	build func(m []string) Directive
}

// shapes are tried in order; the first match wins.
var shapes = []shape{
	{
		re: regexp.MustCompile(`^` + reState + reArrow + reState + reColon + reIdent + reGuard + reAction + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindTransition, From: m[1], To: m[2], Event: m[3], Guard: m[4], Func: m[5]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reState + reArrow + reState + reColon + reIdent + reGuard + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindTransition, From: m[1], To: m[2], Event: m[3], Guard: m[4]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reState + reArrow + reState + reColon + reIdent + reAction + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindTransition, From: m[1], To: m[2], Event: m[3], Func: m[4]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reState + reArrow + reState + reColon + reIdent + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindTransition, From: m[1], To: m[2], Event: m[3]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reState + reArrow + reState + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindTransition, From: m[1], To: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reIdent + reColon + `(?:[eE]nter|[eE]ntry)` + reColon + reFunc + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindHook, From: m[1], Hook: domain.HookEnter, Func: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reIdent + reColon + `[dD]o` + reColon + reFunc + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindHook, From: m[1], Hook: domain.HookDo, Func: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`^` + reIdent + reColon + `[eE]xit` + reColon + reFunc + `$`),
		build: func(m []string) Directive {
			return Directive{Kind: KindHook, From: m[1], Hook: domain.HookExit, Func: m[2]}
		},
	},
}

// Normalize trims a line and collapses internal whitespace runs to one space.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// Classify recognizes one normalized DSL line. It reports false when the line
// is neither blank, a marker, nor one of the directive shapes.
func Classify(line string) (Directive, bool) {
	switch line {
	case "":
		return Directive{Kind: KindBlank}, true
	case StartMarker:
		return Directive{Kind: KindStart}, true
	case EndMarker:
		return Directive{Kind: KindEnd}, true
	}
	for i, s := range shapes {
		if m := s.re.FindStringSubmatch(line); m != nil {
			d := s.build(m)
			d.Shape = i + 1
			return d, true
		}
	}
	return Directive{}, false
}
