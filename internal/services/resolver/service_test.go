package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/models"
)

func testTable() *models.AliasTable {
	return models.NewAliasTable("test-v1", []models.AliasEntry{
		{Symbol: "TCS", Name: "Tata Consultancy Services", Aliases: []string{"tata consultancy"}},
		{Symbol: "INFY", Name: "Infosys"},
		{Symbol: "RELIANCE", Name: "Reliance Industries", Aliases: []string{"reliance"}},
	})
}

func newTestService(table *models.AliasTable) *Service {
	return NewService(table, common.NewSilentLogger())
}

func raw(symbolText string) models.RawHolding {
	return models.RawHolding{SymbolText: symbolText, Quantity: 1, SourceSpan: symbolText}
}

func TestResolveExact(t *testing.T) {
	svc := newTestService(testTable())

	for _, text := range []string{"TCS", "tcs", " Tcs ", "  TCS  "} {
		r := svc.Resolve(raw(text))
		assert.Equal(t, "TCS", r.CanonicalSymbol, "input %q", text)
		assert.Equal(t, models.MatchExact, r.MatchMethod)
		assert.Equal(t, 1.0, r.Confidence)
		assert.Equal(t, "Tata Consultancy Services", r.CompanyName)
	}
}

func TestResolveAlias(t *testing.T) {
	svc := newTestService(testTable())

	r := svc.Resolve(raw("Infosys"))
	assert.Equal(t, "INFY", r.CanonicalSymbol)
	assert.Equal(t, models.MatchAlias, r.MatchMethod)
	assert.Equal(t, 0.9, r.Confidence)

	r = svc.Resolve(raw("tata consultancy"))
	assert.Equal(t, "TCS", r.CanonicalSymbol)
	assert.Equal(t, models.MatchAlias, r.MatchMethod)
}

func TestResolveFuzzyContainment(t *testing.T) {
	svc := newTestService(testTable())

	r := svc.Resolve(raw("Tata Consultancy Serv"))
	assert.Equal(t, "TCS", r.CanonicalSymbol)
	assert.Equal(t, models.MatchFuzzy, r.MatchMethod)
	assert.GreaterOrEqual(t, r.Confidence, 0.5)
	assert.LessOrEqual(t, r.Confidence, 0.89)
}

func TestResolveFuzzyEditDistance(t *testing.T) {
	svc := newTestService(testTable())

	r := svc.Resolve(raw("INFOSYSS"))
	assert.Equal(t, "INFY", r.CanonicalSymbol)
	assert.Equal(t, models.MatchFuzzy, r.MatchMethod)
	assert.GreaterOrEqual(t, r.Confidence, 0.5)
	assert.LessOrEqual(t, r.Confidence, 0.89)
}

func TestResolveUnresolved(t *testing.T) {
	svc := newTestService(testTable())

	r := svc.Resolve(raw("ZZZZZZZZ"))
	assert.Equal(t, models.MatchUnresolved, r.MatchMethod)
	assert.Empty(t, r.CanonicalSymbol)
	assert.Zero(t, r.Confidence)
	assert.False(t, r.Resolved())
}

func TestFuzzyTieLongerAliasWins(t *testing.T) {
	// Both variants score exactly 0.5 against the query; the longer one
	// must win even though the shorter appears first in the table.
	table := models.NewAliasTable("tie-v1", []models.AliasEntry{
		{Symbol: "SHORT", Name: "Short Co", Aliases: []string{"ABC"}},
		{Symbol: "LONG", Name: "Long Co", Aliases: []string{"ABCDEFGHIJKL"}},
	})
	svc := newTestService(table)

	r := svc.Resolve(raw("ABCDEF"))
	require.Equal(t, models.MatchFuzzy, r.MatchMethod)
	assert.Equal(t, "LONG", r.CanonicalSymbol)
}

func TestFuzzyTieInsertionOrderWins(t *testing.T) {
	// Identical variant text on two entries: the earlier entry wins.
	table := models.NewAliasTable("tie-v2", []models.AliasEntry{
		{Symbol: "FIRST", Name: "First Fund", Aliases: []string{"zeta fund"}},
		{Symbol: "SECOND", Name: "Second Fund", Aliases: []string{"zeta fund"}},
	})
	svc := newTestService(table)

	r := svc.Resolve(raw("zeta fundd"))
	require.Equal(t, models.MatchFuzzy, r.MatchMethod)
	assert.Equal(t, "FIRST", r.CanonicalSymbol)
}

func TestResolveDeterministic(t *testing.T) {
	svc := newTestService(testTable())

	for _, text := range []string{"TCS", "Infosys", "Tata Consultancy Serv", "NOPE"} {
		first := svc.Resolve(raw(text))
		second := svc.Resolve(raw(text))
		assert.Equal(t, first, second, "input %q", text)
	}
}

func TestDefaultTableResolvesCommonNames(t *testing.T) {
	svc := newTestService(DefaultTable())

	tests := []struct {
		text   string
		symbol string
	}{
		{"TCS", "TCS"},
		{"INFY", "INFY"},
		{"hdfc", "HDFCBANK"},
		{"State Bank of India", "SBIN"},
		{"l&t", "LT"},
	}
	for _, tt := range tests {
		r := svc.Resolve(raw(tt.text))
		assert.Equal(t, tt.symbol, r.CanonicalSymbol, "input %q", tt.text)
		assert.True(t, r.Resolved())
	}

	r := svc.Resolve(raw("FOO"))
	assert.Equal(t, models.MatchUnresolved, r.MatchMethod)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		d    int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.d, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
