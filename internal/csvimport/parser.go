package csvimport

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/phrazzld/scry-deck/internal/domain"
)

const (
	primaryDelimiter  = ";"
	fallbackDelimiter = "\t"
	requiredFields    = 3
)

// Result describes the outcome of parsing one import payload.
type Result struct {
	// Cards holds one new card per accepted line, in input order.
	Cards []*domain.Card

	// Skipped counts non-blank lines that did not yield three fields.
	Skipped int
}

// Parse converts text into cards. Lines are split on any newline sequence.
// It never fails; blank lines are dropped and malformed lines are counted
// in Result.Skipped.
func Parse(text string) Result {
	return ParseWithLogger(text, nil)
}

// ParseWithLogger behaves like Parse and reports skipped lines at debug level.
func ParseWithLogger(text string, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}

	result := Result{Cards: []*domain.Card{}}
	for i, line := range splitLines(text) {
		if strings.TrimFunc(line, unicode.IsSpace) == "" {
			continue
		}
		fields, ok := splitFields(line)
		if !ok {
			result.Skipped++
			logger.Debug("skipping malformed import line",
				slog.Int("line", i+1),
				slog.Int("length", len(line)))
			continue
		}

		result.Cards = append(result.Cards, domain.NewCard(
			strings.TrimFunc(fields[0], unicode.IsSpace),
			strings.TrimFunc(fields[1], unicode.IsSpace),
			strings.TrimFunc(fields[2], unicode.IsSpace),
		))
	}

	return result
}

// ParseReader reads r fully and parses its contents.
func ParseReader(r io.Reader, logger *slog.Logger) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read import data: %w", err)
	}
	return ParseWithLogger(string(data), logger), nil
}

// splitLines breaks text on \r\n, \n or \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitFields returns the first three fields of a line, preferring the
// semicolon delimiter over tabs.
func splitFields(line string) ([]string, bool) {
	if fields := strings.Split(line, primaryDelimiter); len(fields) >= requiredFields {
		return fields[:requiredFields], true
	}
	if fields := strings.Split(line, fallbackDelimiter); len(fields) >= requiredFields {
		return fields[:requiredFields], true
	}
	return nil, false
}
