package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the crank ASCII banner to w.
func PrintBanner(w io.Writer) {
	o := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"   ___ _ __ __ _ _ __ | | __", "#818cf8"},
		{"  / __| '__/ _` | '_ \\| |/ /", "#a78bfa"},
		{" | (__| | | (_| | | | |   < ", "#e879f9"},
		{"  \\___|_|  \\__,_|_| |_|_|\\_\\", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	fmt.Fprintln(w)
}
