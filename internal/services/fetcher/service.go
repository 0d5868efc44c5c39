// Package fetcher retrieves market data for resolved symbols with bounded
// concurrency, per-symbol retry, and bulkhead isolation: one symbol's failure
// never affects another's fetch.
package fetcher

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
)

// Service fans out quote fetches over a bounded worker pool.
type Service struct {
	client interfaces.MarketDataClient
	logger *common.Logger

	concurrency    int
	attempts       int
	baseDelay      time.Duration
	maxDelay       time.Duration
	attemptTimeout time.Duration

	rng   *rand.Rand
	rngMu sync.Mutex

	// sleep is replaceable in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a fetcher from the engine configuration.
func NewService(client interfaces.MarketDataClient, cfg common.EngineConfig, logger *common.Logger) *Service {
	concurrency := cfg.FetchConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}

	return &Service{
		client:         client,
		logger:         logger,
		concurrency:    concurrency,
		attempts:       attempts,
		baseDelay:      cfg.GetRetryBaseDelay(),
		maxDelay:       cfg.GetRetryMaxDelay(),
		attemptTimeout: cfg.GetAttemptTimeout(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:          sleepContext,
	}
}

// FetchAll fetches quotes for the distinct symbols concurrently and returns
// one result per symbol. Duplicate symbols in the input are fetched once.
// Cancellation of ctx stops retrying; symbols still in flight at that point
// come back as failures rather than aborting the call.
func (s *Service) FetchAll(ctx context.Context, symbols []string) map[string]interfaces.FetchResult {
	distinct := dedupe(symbols)
	out := make(map[string]interfaces.FetchResult, len(distinct))
	if len(distinct) == 0 {
		return out
	}

	workers := s.concurrency
	if len(distinct) < workers {
		workers = len(distinct)
	}

	jobs := make(chan string)
	results := make(chan interfaces.FetchResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- s.fetchOne(ctx, symbol)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range distinct {
			jobs <- symbol
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector; no shared mutable state across workers.
	for r := range results {
		out[r.Symbol] = r
	}

	return out
}

// fetchOne runs the retry loop for a single symbol. A quote without a price
// counts as a failed attempt; missing optional fields do not.
func (s *Service) fetchOne(ctx context.Context, symbol string) interfaces.FetchResult {
	var lastErr error

	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			delay := s.backoffDelay(attempt)
			s.logger.Debug().
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Msg("Retrying quote fetch")
			if err := s.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		quote, err := s.client.GetQuote(attemptCtx, symbol)
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if quote == nil || quote.Price <= 0 {
			lastErr = fmt.Errorf("no price returned for %s", symbol)
			continue
		}

		return interfaces.FetchResult{Symbol: symbol, Quote: quote}
	}

	s.logger.Warn().Str("symbol", symbol).Err(lastErr).Msg("Quote fetch failed")

	return interfaces.FetchResult{
		Symbol: symbol,
		Err:    fmt.Errorf("fetch for %s failed after %d attempts: %w", symbol, s.attempts, lastErr),
	}
}

// backoffDelay doubles the base delay per retry up to the cap, then applies
// jitter (half fixed, half random) so concurrent symbols don't retry in
// lockstep.
func (s *Service) backoffDelay(attempt int) time.Duration {
	delay := s.baseDelay << uint(attempt-1)
	if delay > s.maxDelay || delay <= 0 {
		delay = s.maxDelay
	}
	if delay <= 1 {
		return delay
	}

	half := delay / 2
	s.rngMu.Lock()
	jitter := time.Duration(s.rng.Int63n(int64(half) + 1))
	s.rngMu.Unlock()

	return half + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Ensure Service implements MarketFetcher
var _ interfaces.MarketFetcher = (*Service)(nil)
