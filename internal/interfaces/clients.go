// Package interfaces defines service contracts for Finsight
package interfaces

import (
	"context"

	"github.com/finsightlab/finsight/internal/models"
)

// MarketDataClient provides access to the market data provider. The provider
// is rate-limited and occasionally flaky; callers own retry policy.
type MarketDataClient interface {
	// GetQuote retrieves the current price and fundamentals for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// NarrativeClient provides access to the AI narrative collaborator.
type NarrativeClient interface {
	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// AnalyzeScenario generates a narrative what-if analysis for an
	// assembled portfolio analysis and a free-text scenario description.
	AnalyzeScenario(ctx context.Context, analysis *models.PortfolioAnalysis, scenario string) (string, error)
}
