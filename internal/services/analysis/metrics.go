package analysis

import (
	"sort"

	"github.com/finsightlab/finsight/internal/models"
)

// sectorUnknown buckets holdings whose provider record carries no sector.
const sectorUnknown = "Unknown"

// consolidate merges holdings that resolved to the same canonical symbol,
// summing quantities. When two lines reached the same symbol via different
// match methods the higher-confidence method is kept for display. Unresolved
// holdings have no canonical symbol and pass through untouched, preserving
// input order throughout.
func consolidate(holdings []models.ResolvedHolding) []models.ResolvedHolding {
	out := make([]models.ResolvedHolding, 0, len(holdings))
	index := make(map[string]int, len(holdings))

	for _, h := range holdings {
		if !h.Resolved() {
			out = append(out, h)
			continue
		}
		if i, ok := index[h.CanonicalSymbol]; ok {
			merged := out[i]
			merged.Quantity += h.Quantity
			if h.Confidence > merged.Confidence {
				merged.Confidence = h.Confidence
				merged.MatchMethod = h.MatchMethod
			}
			out[i] = merged
			continue
		}
		index[h.CanonicalSymbol] = len(out)
		out = append(out, h)
	}

	return out
}

// metrics holds the aggregate numbers computed over priced holdings.
// Full precision is carried; rounding is a presentation concern.
type metrics struct {
	totalValue            float64
	weights               map[string]float64
	sectorAllocation      map[string]float64
	concentrationIndex    float64
	weightedPE            *float64
	weightedDividendYield *float64
}

// aggregate computes portfolio metrics over the holdings with fetch_status ok.
// Holdings that failed or were skipped stay out of every number here; they are
// listed in the result for transparency only. Zero priced holdings is fatal.
// Weights are also written back onto the ok holdings in place.
func aggregate(holdings []models.EnrichedHolding) (*metrics, error) {
	totalValue := 0.0
	for _, h := range holdings {
		if h.FetchStatus == models.FetchOK {
			totalValue += h.MarketValue
		}
	}
	if totalValue <= 0 {
		return nil, models.ErrEmptyPortfolio
	}

	m := &metrics{
		totalValue:       totalValue,
		weights:          make(map[string]float64),
		sectorAllocation: make(map[string]float64),
	}

	var peWeight, peSum float64
	var dyWeight, dySum float64

	for i := range holdings {
		h := &holdings[i]
		if h.FetchStatus != models.FetchOK {
			continue
		}

		weight := h.MarketValue / totalValue
		h.Weight = weight
		m.weights[h.CanonicalSymbol] = weight

		sector := h.Sector
		if sector == "" {
			sector = sectorUnknown
		}
		m.sectorAllocation[sector] += weight

		m.concentrationIndex += weight * weight

		// Weighted averages renormalize over the holdings that carry the
		// field; a missing ratio is excluded, not treated as zero.
		if h.PERatio != nil {
			peWeight += weight
			peSum += weight * (*h.PERatio)
		}
		if h.DividendYield != nil {
			dyWeight += weight
			dySum += weight * (*h.DividendYield)
		}
	}

	if peWeight > 0 {
		v := peSum / peWeight
		m.weightedPE = &v
	}
	if dyWeight > 0 {
		v := dySum / dyWeight
		m.weightedDividendYield = &v
	}

	return m, nil
}

// orderHoldings sorts priced holdings by descending market value and appends
// the unpriced ones in their original input order.
func orderHoldings(holdings []models.EnrichedHolding) []models.EnrichedHolding {
	ok := make([]models.EnrichedHolding, 0, len(holdings))
	rest := make([]models.EnrichedHolding, 0)

	for _, h := range holdings {
		if h.FetchStatus == models.FetchOK {
			ok = append(ok, h)
		} else {
			rest = append(rest, h)
		}
	}

	sort.SliceStable(ok, func(i, j int) bool {
		return ok[i].MarketValue > ok[j].MarketValue
	})

	return append(ok, rest...)
}
