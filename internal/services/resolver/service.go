// Package resolver maps raw symbol text to canonical instruments using an
// immutable, versioned alias table.
package resolver

import (
	"strings"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/models"
)

const (
	confidenceExact = 1.0
	confidenceAlias = 0.9

	// Fuzzy matches scale linearly between fuzzyMinConfidence at the
	// similarity threshold and fuzzyMaxConfidence at similarity 1.0.
	fuzzyMinConfidence  = 0.5
	fuzzyMaxConfidence  = 0.89
	similarityThreshold = 0.5
)

// Service resolves symbol text against an alias table. The table is read-only
// after construction, so a single Service is safe for concurrent use.
type Service struct {
	table  *models.AliasTable
	logger *common.Logger
}

// NewService creates a resolver bound to one alias table version.
func NewService(table *models.AliasTable, logger *common.Logger) *Service {
	return &Service{table: table, logger: logger}
}

// TableVersion returns the version id of the bound alias table.
func (s *Service) TableVersion() string {
	return s.table.Version()
}

// Resolve maps one RawHolding to a ResolvedHolding. Resolution order:
// exact canonical symbol, then alias variant, then fuzzy match, then
// unresolved. The same symbol text and table version always produce the
// same result.
func (s *Service) Resolve(raw models.RawHolding) models.ResolvedHolding {
	norm := models.NormalizeSymbol(raw.SymbolText)

	if entry, ok := s.table.LookupSymbol(norm); ok {
		return models.ResolvedHolding{
			RawHolding:      raw,
			CanonicalSymbol: entry.Symbol,
			CompanyName:     entry.Name,
			Confidence:      confidenceExact,
			MatchMethod:     models.MatchExact,
		}
	}

	if entry, ok := s.table.LookupAlias(norm); ok {
		return models.ResolvedHolding{
			RawHolding:      raw,
			CanonicalSymbol: entry.Symbol,
			CompanyName:     entry.Name,
			Confidence:      confidenceAlias,
			MatchMethod:     models.MatchAlias,
		}
	}

	if entry, confidence, ok := s.fuzzyMatch(norm); ok {
		return models.ResolvedHolding{
			RawHolding:      raw,
			CanonicalSymbol: entry.Symbol,
			CompanyName:     entry.Name,
			Confidence:      confidence,
			MatchMethod:     models.MatchFuzzy,
		}
	}

	s.logger.Debug().Str("symbol_text", raw.SymbolText).Msg("Symbol unresolved")

	return models.ResolvedHolding{
		RawHolding:  raw,
		Confidence:  0,
		MatchMethod: models.MatchUnresolved,
	}
}

// fuzzyMatch scans every table variant in insertion order and keeps the best
// similarity. Ties go to the longer variant text; remaining ties go to the
// earlier table entry, which the strictly-greater comparisons below give us
// for free.
func (s *Service) fuzzyMatch(norm string) (models.AliasEntry, float64, bool) {
	if norm == "" {
		return models.AliasEntry{}, 0, false
	}

	bestSim := 0.0
	bestLen := 0
	bestEntry := -1

	for _, cand := range s.table.Candidates() {
		sim := similarity(norm, cand.Text)
		if sim > bestSim || (sim == bestSim && len(cand.Text) > bestLen) {
			bestSim = sim
			bestLen = len(cand.Text)
			bestEntry = cand.Entry
		}
	}

	if bestEntry < 0 || bestSim < similarityThreshold {
		return models.AliasEntry{}, 0, false
	}

	scale := (fuzzyMaxConfidence - fuzzyMinConfidence) / (1 - similarityThreshold)
	confidence := fuzzyMinConfidence + (bestSim-similarityThreshold)*scale

	return s.table.Entry(bestEntry), confidence, true
}

// similarity scores two normalized strings in [0,1]. Containment scores by
// length ratio; otherwise edit distance relative to the longer string.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	longer := la
	if lb > longer {
		longer = lb
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter := la
		if lb < shorter {
			shorter = lb
		}
		return float64(shorter) / float64(longer)
	}

	d := levenshtein(a, b)
	return 1.0 - float64(d)/float64(longer)
}

// levenshtein computes the edit distance with a two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
