package interfaces

import (
	"context"

	"github.com/finsightlab/finsight/internal/models"
)

// AnalysisService runs the full ingestion and analysis pipeline.
type AnalysisService interface {
	// Analyze parses a free-text portfolio description, resolves symbols,
	// fetches market data, and aggregates portfolio metrics. Non-fatal
	// conditions become warnings on the result; it returns
	// models.ErrMalformedInput for empty input and models.ErrEmptyPortfolio
	// when no holding could be priced.
	Analyze(ctx context.Context, text string) (*models.PortfolioAnalysis, error)
}

// FetchResult is the per-symbol outcome of a market data fan-out.
// Exactly one of Quote or Err is set.
type FetchResult struct {
	Symbol string
	Quote  *models.Quote
	Err    error
}

// MarketFetcher fetches quotes for a set of distinct symbols with bounded
// concurrency, per-symbol retry, and bulkhead isolation.
type MarketFetcher interface {
	// FetchAll returns one result per distinct input symbol. It never
	// returns an error for a single symbol's failure; failures are carried
	// in the per-symbol results.
	FetchAll(ctx context.Context, symbols []string) map[string]FetchResult
}
