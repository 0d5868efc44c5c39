package models

import "time"

// PortfolioAnalysis is the final aggregate produced by one analysis request.
// It is assembled once and never mutated afterwards. Holdings are ordered by
// descending market value among priced holdings, followed by unpriced holdings
// in original input order. Warnings are ordered parse warnings first, then
// unresolved-symbol warnings, then fetch failures, preserving input order
// within each group.
type PortfolioAnalysis struct {
	Holdings              []EnrichedHolding  `json:"holdings"`
	TotalValue            float64            `json:"total_value"`
	Weights               map[string]float64 `json:"weights"`
	SectorAllocation      map[string]float64 `json:"sector_allocation"`
	ConcentrationIndex    float64            `json:"concentration_index"` // Herfindahl index on a 0–1 scale
	WeightedPE            *float64           `json:"weighted_pe"`
	WeightedDividendYield *float64           `json:"weighted_dividend_yield"`
	Warnings              []string           `json:"warnings"`
	AliasTableVersion     string             `json:"alias_table_version"`
	GeneratedAt           time.Time          `json:"generated_at"`
}

// AnalysisRecord wraps a persisted PortfolioAnalysis.
type AnalysisRecord struct {
	ID        string            `json:"id" badgerhold:"key"`
	UserID    string            `json:"user_id" badgerhold:"index"`
	Analysis  PortfolioAnalysis `json:"analysis"`
	CreatedAt time.Time         `json:"created_at"`
}
