package signature

import "strings"

// Width is the length of every line of a block marker.
const Width = 80

const (
	commentPrefix = "// "
	middlePrefix  = "// =========="
)

// Marker is an exact-match sentinel in a host document. A block marker is a
// three-line comment banner; a line marker is a single line.
type Marker struct {
	Text  string
	Block bool
}

// NewBlock returns the three-line banner marker labelled text.
func NewBlock(text string) Marker {
	return Marker{Text: text, Block: true}
}

// NewLine returns a single-line marker.
func NewLine(text string) Marker {
	return Marker{Text: text}
}

// Lines renders the marker as it is written into a document.
func (m Marker) Lines() []string {
	if !m.Block {
		return []string{m.Text}
	}
	outer := commentPrefix + strings.Repeat("=", Width-len(commentPrefix))
	middle := middlePrefix + " " + m.Text + " "
	if pad := Width - len(middle); pad > 0 {
		middle += strings.Repeat("=", pad)
	}
	return []string{outer, middle, outer}
}

func (m Marker) String() string { return m.Text }

// Pair delimits one named region.
type Pair struct {
	Name  string
	Start Marker
	End   Marker
}

// NewPair builds a block-marker pair for a generated or user region.
func NewPair(name, start, end string) Pair {
	return Pair{Name: name, Start: NewBlock(start), End: NewBlock(end)}
}

// Set is the ordered list of regions a code style maintains.
type Set []Pair

// DSL delimits the embedded state machine description.
var DSL = Pair{
	Name:  "dsl",
	Start: NewLine("@startuml"),
	End:   NewLine("@enduml"),
}
