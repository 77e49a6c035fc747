package compiler

import (
	"log/slog"
	"strings"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/domain"
)

// Parse builds a model from the lines of a DSL block. firstLine is the
// 1-based host line of lines[0] and is used for error positions.
func Parse(lines []string, firstLine int, logger *slog.Logger) (*domain.Model, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := NewBuilder(logger)

	for i, raw := range lines {
		line := firstLine + i
		d, ok := Classify(Normalize(raw))
		if !ok {
			return nil, &domain.ParseError{Line: line, Text: strings.TrimSpace(raw)}
		}
		if err := b.Add(line, d); err != nil {
			return nil, err
		}
	}

	m := b.Model()
	if m.Startup == "" && len(m.States) > 0 {
		logger.Warn("no startup transition declared", "first_state", m.States[0])
	}
	logger.Debug("dsl parsed",
		"states", len(m.States), "events", len(m.Events), "transitions", len(m.Transitions))
	return m, nil
}
