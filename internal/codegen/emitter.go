package codegen

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"

	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/domain"
	"github.com/aretw0/crank/pkg/ports"
)

// Defined reports whether a function is already declared in the host file.
type Defined interface {
	Has(name string) bool
}

// Emitter renders a model into the generated regions of one code style.
type Emitter interface {
	// Name is the style name used in configuration.
	Name() string
	// Signatures lists the regions the style maintains, user region last.
	Signatures() signature.Set
	// UserRegion is the hand-written region receiving stubs.
	UserRegion() signature.Pair
	// Render returns the generated lines keyed by region name.
	Render(m *domain.Model) (map[string][]string, error)
	// Stubs returns one stub per referenced function missing from defined,
	// sorted by name.
	Stubs(m *domain.Model, defined Defined) [][]string
}

// Style names.
const (
	StyleTabular = "tabular"
	StyleSwitch  = "switch"
)

// Styles returns every available emitter.
func Styles() []Emitter {
	return []Emitter{NewTabular(), NewSwitch()}
}

// ByName returns the emitter of a style.
func ByName(name string) (Emitter, error) {
	for _, e := range Styles() {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown code style %q (want %s or %s)", name, StyleTabular, StyleSwitch)
}

// Detect returns the emitter whose signatures are all present in doc, or
// fallback when no style has been generated into the document yet.
func Detect(doc ports.LineReader, fallback Emitter) Emitter {
	for _, e := range Styles() {
		if all, err := signature.Verify(doc, e.Signatures()); err == nil && all {
			return e
		}
	}
	return fallback
}

// Missing returns the referenced functions not yet declared, sorted by name.
func Missing(m *domain.Model, defined Defined) []domain.Function {
	var out []domain.Function
	for _, fn := range m.Functions() {
		if defined == nil || !defined.Has(fn.Name) {
			out = append(out, fn)
		}
	}
	return out
}

// validate rejects identifiers that cannot be emitted as Go code.
func validate(m *domain.Model, reserved ...string) error {
	check := func(kind, name string) error {
		if token.IsKeyword(name) {
			return fmt.Errorf("%s %q is a Go keyword", kind, name)
		}
		for _, r := range reserved {
			if name == r {
				return fmt.Errorf("%s %q clashes with a generated identifier", kind, name)
			}
		}
		return nil
	}
	for _, s := range m.States {
		if err := check("state", s); err != nil {
			return err
		}
	}
	for _, e := range m.Events {
		if err := check("event", e); err != nil {
			return err
		}
	}
	for _, fn := range m.Functions() {
		if err := check(string(fn.Role)+" function", fn.Name); err != nil {
			return err
		}
	}
	return m.CheckRoles()
}

// writer accumulates generated Go source.
type writer struct {
	sb strings.Builder
}

func (w *writer) line(format string, args ...any) {
	if len(args) == 0 {
		w.sb.WriteString(format)
	} else {
		fmt.Fprintf(&w.sb, format, args...)
	}
	w.sb.WriteString("\n")
}

func (w *writer) blank() { w.sb.WriteString("\n") }

// lines gofmt-formats the accumulated declarations and splits them.
func (w *writer) lines() ([]string, error) {
	out, err := format.Source([]byte(w.sb.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	text := strings.Trim(string(out), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
