package ports

// LineReader gives read access to the lines of a host document.
type LineReader interface {
	// Len returns the number of lines.
	Len() int
	// Line returns the 0-based line i, trimmed and whitespace-collapsed.
	Line(i int) string
	// Raw returns the 0-based line i exactly as stored.
	Raw(i int) string
}

// Document is a mutable host document.
type Document interface {
	LineReader
	// Insert places text before the 0-based index i.
	Insert(i int, text string) error
	// Delete removes the line with 1-based number n.
	Delete(n int) error
}
