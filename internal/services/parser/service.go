// Package parser turns a free-text portfolio description into raw holdings.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/models"
)

// Service parses portfolio text into RawHoldings.
type Service struct {
	logger *common.Logger
}

// NewService creates a new parser service.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Parse splits the input blob into holding segments and parses each into a
// RawHolding. Segments that yield no parseable quantity, a non-positive
// quantity, or an empty symbol produce a warning and are dropped; parsing
// never aborts on a single bad segment. Duplicate symbols are preserved as
// separate holdings. Empty or whitespace-only input is fatal.
func (s *Service) Parse(text string) ([]models.RawHolding, []string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, models.ErrMalformedInput
	}

	var holdings []models.RawHolding
	var warnings []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h, w := s.parseLine(line)
		holdings = append(holdings, h...)
		warnings = append(warnings, w...)
	}

	s.logger.Debug().
		Int("holdings", len(holdings)).
		Int("warnings", len(warnings)).
		Msg("Parsed portfolio input")

	return holdings, warnings, nil
}

// parseLine splits one line on commas into segments. A comma piece that
// starts with a digit continues the preceding symbol-only piece
// ("TCS, 10 shares"); otherwise each piece is a holding of its own
// ("TCS 10, INFY 5").
func (s *Service) parseLine(line string) ([]models.RawHolding, []string) {
	var holdings []models.RawHolding
	var warnings []string

	pending := "" // symbol-only piece waiting for its quantity

	flush := func(segment string) {
		h, err := parseSegment(segment)
		if err != nil {
			warnings = append(warnings, err.Error())
			return
		}
		holdings = append(holdings, h)
	}

	for _, piece := range strings.Split(line, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		if startsWithDigit(piece) {
			if pending != "" {
				flush(pending + ", " + piece)
				pending = ""
			} else {
				warnings = append(warnings, fmt.Sprintf("could not parse segment %q: quantity without a symbol", piece))
			}
			continue
		}

		if pending != "" {
			flush(pending)
			pending = ""
		}

		if numberRe.MatchString(piece) {
			flush(piece)
		} else {
			pending = piece
		}
	}

	if pending != "" {
		flush(pending)
	}

	return holdings, warnings
}

// parseSegment parses one holding segment. The symbol text is everything
// before the first number, stripped of separator characters; the quantity is
// the first number; any trailing unit word ("shares") is discarded.
func parseSegment(segment string) (models.RawHolding, error) {
	loc := numberRe.FindStringIndex(segment)
	if loc == nil {
		return models.RawHolding{}, fmt.Errorf("could not parse segment %q: no quantity found", segment)
	}

	symbolText := strings.TrimSpace(segment[:loc[0]])
	symbolText = strings.TrimSpace(strings.TrimRight(symbolText, ":,"))
	if symbolText == "" || !containsLetter(symbolText) {
		return models.RawHolding{}, fmt.Errorf("could not parse segment %q: missing symbol", segment)
	}

	quantity, err := strconv.ParseFloat(segment[loc[0]:loc[1]], 64)
	if err != nil || quantity <= 0 {
		return models.RawHolding{}, fmt.Errorf("could not parse segment %q: invalid quantity", segment)
	}

	return models.RawHolding{
		SymbolText: symbolText,
		Quantity:   quantity,
		SourceSpan: segment,
	}, nil
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
