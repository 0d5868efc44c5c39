// Package analysis orchestrates the portfolio ingestion and analysis
// pipeline: parse, resolve, fetch, aggregate, assemble. Each analysis call is
// independent; the only shared state is the read-only alias table inside the
// resolver.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
	"github.com/finsightlab/finsight/internal/models"
	"github.com/finsightlab/finsight/internal/services/parser"
	"github.com/finsightlab/finsight/internal/services/resolver"
)

// Service implements the AnalysisService interface.
type Service struct {
	parser   *parser.Service
	resolver *resolver.Service
	fetcher  interfaces.MarketFetcher
	logger   *common.Logger
	deadline time.Duration

	now func() time.Time
}

// NewService creates the analysis pipeline service.
func NewService(
	parserSvc *parser.Service,
	resolverSvc *resolver.Service,
	fetcherSvc interfaces.MarketFetcher,
	cfg common.EngineConfig,
	logger *common.Logger,
) *Service {
	return &Service{
		parser:   parserSvc,
		resolver: resolverSvc,
		fetcher:  fetcherSvc,
		logger:   logger,
		deadline: cfg.GetAnalysisDeadline(),
		now:      time.Now,
	}
}

// Analyze runs the five pipeline stages in order. Stages 2–5 each consume the
// completed output of the previous stage; only the market data fan-out inside
// stage 3 is concurrent. Non-fatal conditions accumulate as warnings on the
// result: parse warnings first, then unresolved symbols, then fetch failures.
func (s *Service) Analyze(ctx context.Context, text string) (*models.PortfolioAnalysis, error) {
	started := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	// Stage 1: parse
	raw, parseWarnings, err := s.parser.Parse(text)
	if err != nil {
		return nil, err
	}

	// Stage 2: resolve
	resolved := make([]models.ResolvedHolding, len(raw))
	var unresolvedWarnings []string
	for i, h := range raw {
		resolved[i] = s.resolver.Resolve(h)
		if !resolved[i].Resolved() {
			unresolvedWarnings = append(unresolvedWarnings,
				fmt.Sprintf("could not resolve symbol %q", h.SymbolText))
		}
	}

	// Duplicate canonical symbols are consolidated before pricing so each
	// instrument is fetched and weighted once.
	consolidated := consolidate(resolved)

	// Stage 3: fetch
	symbols := make([]string, 0, len(consolidated))
	for _, h := range consolidated {
		if h.Resolved() {
			symbols = append(symbols, h.CanonicalSymbol)
		}
	}
	results := s.fetcher.FetchAll(ctx, symbols)

	enriched := make([]models.EnrichedHolding, 0, len(consolidated))
	var fetchWarnings []string
	for _, h := range consolidated {
		enriched = append(enriched, enrich(h, results, &fetchWarnings))
	}

	// Stage 4: aggregate
	m, err := aggregate(enriched)
	if err != nil {
		return nil, err
	}

	// Stage 5: assemble
	warnings := make([]string, 0, len(parseWarnings)+len(unresolvedWarnings)+len(fetchWarnings))
	warnings = append(warnings, parseWarnings...)
	warnings = append(warnings, unresolvedWarnings...)
	warnings = append(warnings, fetchWarnings...)

	result := &models.PortfolioAnalysis{
		Holdings:              orderHoldings(enriched),
		TotalValue:            m.totalValue,
		Weights:               m.weights,
		SectorAllocation:      m.sectorAllocation,
		ConcentrationIndex:    m.concentrationIndex,
		WeightedPE:            m.weightedPE,
		WeightedDividendYield: m.weightedDividendYield,
		Warnings:              warnings,
		AliasTableVersion:     s.resolver.TableVersion(),
		GeneratedAt:           s.now(),
	}

	s.logger.Info().
		Int("holdings", len(result.Holdings)).
		Int("warnings", len(result.Warnings)).
		Float64("total_value", result.TotalValue).
		Dur("elapsed", s.now().Sub(started)).
		Msg("Analysis complete")

	return result, nil
}

// enrich attaches the fetch outcome to one consolidated holding. Unresolved
// holdings are skipped rather than failed: they never reached the provider.
func enrich(h models.ResolvedHolding, results map[string]interfaces.FetchResult, fetchWarnings *[]string) models.EnrichedHolding {
	out := models.EnrichedHolding{ResolvedHolding: h, FetchStatus: models.FetchSkipped}
	if !h.Resolved() {
		return out
	}

	r, ok := results[h.CanonicalSymbol]
	if !ok || r.Err != nil {
		out.FetchStatus = models.FetchFailed
		reason := "cancelled before fetch completed"
		if ok && r.Err != nil {
			reason = r.Err.Error()
		}
		*fetchWarnings = append(*fetchWarnings,
			fmt.Sprintf("market data unavailable for %s: %s", h.CanonicalSymbol, reason))
		return out
	}

	out.FetchStatus = models.FetchOK
	out.Price = r.Quote.Price
	out.Sector = r.Quote.Sector
	out.PERatio = r.Quote.PERatio
	out.DividendYield = r.Quote.DividendYield
	out.MarketValue = h.Quantity * r.Quote.Price
	return out
}

// Ensure Service implements AnalysisService
var _ interfaces.AnalysisService = (*Service)(nil)
