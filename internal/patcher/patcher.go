package patcher

import (
	"fmt"

	"github.com/aretw0/crank/internal/signature"
	"github.com/aretw0/crank/pkg/ports"
)

// Clear removes every line strictly between the marker banners of r.
// Lines are deleted bottom-up through the 1-based Delete.
func Clear(doc ports.Document, r signature.Region) error {
	first := r.Start + 2 // first line past the start banner
	last := r.End - 2    // last line before the end banner
	for n := last; n >= first; n-- {
		if err := doc.Delete(n); err != nil {
			return fmt.Errorf("failed to clear region %q: %w", r.Pair.Name, err)
		}
	}
	return nil
}

// Fill inserts lines right after the start banner of r, framed by blank lines.
func Fill(doc ports.Document, r signature.Region, lines []string) error {
	at := r.Start + 2 - 1 // 0-based index of the first line past the banner
	body := make([]string, 0, len(lines)+2)
	body = append(body, "")
	body = append(body, lines...)
	body = append(body, "")
	for _, l := range body {
		if err := doc.Insert(at, l); err != nil {
			return fmt.Errorf("failed to fill region %q: %w", r.Pair.Name, err)
		}
		at++
	}
	return nil
}

// Replace regenerates the region delimited by p. It reports false when
// neither marker exists; a half pair is an error.
func Replace(doc ports.Document, p signature.Pair, lines []string) (bool, error) {
	r, ok, err := signature.FindRegion(doc, p)
	if err != nil || !ok {
		return false, err
	}
	if err := Clear(doc, r); err != nil {
		return false, err
	}
	if err := Fill(doc, r, lines); err != nil {
		return false, err
	}
	return true, nil
}

// AppendStubs inserts stub lines at the bottom of the user region p, above
// the last line preceding its end banner, so hand-written code stays put.
// Each stub is separated from the previous one by a blank line.
func AppendStubs(doc ports.Document, p signature.Pair, stubs [][]string) error {
	if len(stubs) == 0 {
		return nil
	}
	r, ok, err := signature.FindRegion(doc, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("failed to add stubs: region %q not found", p.Name)
	}

	at := r.End - 2 - 1
	if floor := r.Start + 1; at < floor {
		at = floor
	}
	for _, stub := range stubs {
		for _, l := range append([]string{""}, stub...) {
			if err := doc.Insert(at, l); err != nil {
				return fmt.Errorf("failed to add stubs: %w", err)
			}
			at++
		}
	}
	return nil
}
