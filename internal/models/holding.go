// Package models defines data structures for Finsight
package models

// RawHolding is one parsed segment of user input, before resolution.
type RawHolding struct {
	SymbolText string  `json:"symbol_text"`
	Quantity   float64 `json:"quantity"`
	SourceSpan string  `json:"source_span"` // the original input segment, verbatim
}

// MatchMethod describes how a symbol text was resolved
type MatchMethod string

const (
	MatchExact      MatchMethod = "exact"
	MatchAlias      MatchMethod = "alias"
	MatchFuzzy      MatchMethod = "fuzzy"
	MatchUnresolved MatchMethod = "unresolved"
)

// ResolvedHolding is a RawHolding mapped to a canonical instrument.
// An unresolved holding has an empty CanonicalSymbol and zero confidence;
// it stays in the output list but never reaches pricing or metrics.
type ResolvedHolding struct {
	RawHolding
	CanonicalSymbol string      `json:"canonical_symbol,omitempty"`
	CompanyName     string      `json:"company_name,omitempty"`
	Confidence      float64     `json:"confidence"`
	MatchMethod     MatchMethod `json:"match_method"`
}

// Resolved reports whether the holding mapped to a canonical symbol.
func (h ResolvedHolding) Resolved() bool {
	return h.MatchMethod != MatchUnresolved && h.CanonicalSymbol != ""
}

// FetchStatus describes the outcome of the market data fetch for a holding
type FetchStatus string

const (
	FetchOK      FetchStatus = "ok"
	FetchFailed  FetchStatus = "failed"
	FetchSkipped FetchStatus = "skipped"
)

// EnrichedHolding is a ResolvedHolding plus market data.
// MarketValue is Quantity × Price and is only set when FetchStatus is ok.
type EnrichedHolding struct {
	ResolvedHolding
	Price         float64     `json:"price,omitempty"`
	Sector        string      `json:"sector,omitempty"`
	PERatio       *float64    `json:"pe_ratio,omitempty"`
	DividendYield *float64    `json:"dividend_yield,omitempty"`
	MarketValue   float64     `json:"market_value,omitempty"`
	Weight        float64     `json:"weight,omitempty"` // fraction of total value, ok holdings only
	FetchStatus   FetchStatus `json:"fetch_status"`
}
