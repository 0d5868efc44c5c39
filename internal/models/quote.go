package models

import "time"

// Quote holds the market data record for one instrument as returned by the
// provider. PERatio and DividendYield are nil when the provider omits them;
// Price is mandatory — a quote without a price is treated as a failed fetch.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Sector        string    `json:"sector,omitempty"`
	PERatio       *float64  `json:"pe_ratio,omitempty"`
	DividendYield *float64  `json:"dividend_yield,omitempty"`
	AsOf          time.Time `json:"as_of"`
}
