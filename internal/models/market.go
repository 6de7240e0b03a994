// Package models defines data structures for Folio
package models

import (
	"time"
)

// Quote holds a point-in-time snapshot of a symbol from the market data provider.
// Fundamental fields are pointers because the provider omits them for many
// symbols (no earnings, no dividend).
type Quote struct {
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"company_name"`
	Price         float64  `json:"price"`
	TrailingPE    *float64 `json:"trailing_pe,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"` // raw fraction, e.g. 0.0052
}

// HistoryRange selects the trailing window for daily history requests,
// using the provider's range notation.
type HistoryRange string

const (
	RangeOneYear  HistoryRange = "1y"
	RangeTwoYears HistoryRange = "2y"
)

// PriceBar holds one daily close from the historical price series.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// MetricSet holds the three per-symbol metrics. Each metric is nil when the
// provider data was missing, the history was too short, or the computation
// was rejected. Average is defined only when at least two metrics are present.
type MetricSet struct {
	Symbol        string   `json:"symbol"`
	CompanyName   string   `json:"company_name"`
	PERatio       *float64 `json:"pe_ratio"`
	SharpeRatio   *float64 `json:"sharpe_ratio"`
	DividendYield *float64 `json:"dividend_yield"` // percentage
	Average       float64  `json:"average"`
}

// AvailableMetrics returns the non-nil metric values in declaration order.
func (m *MetricSet) AvailableMetrics() []float64 {
	var vals []float64
	for _, v := range []*float64{m.PERatio, m.SharpeRatio, m.DividendYield} {
		if v != nil {
			vals = append(vals, *v)
		}
	}
	return vals
}

// RankedStock is a MetricSet with a resolved current price, produced by the
// ranking engine after sorting.
type RankedStock struct {
	MetricSet
	CurrentPrice float64 `json:"current_price"`
}

// Skip reasons recorded by the ranking engine for symbols excluded from the result.
const (
	SkipReasonFetchError          = "fetch error"
	SkipReasonInsufficientMetrics = "insufficient metrics"
)

// SkippedSymbol records why a universe symbol was excluded from a ranking run.
type SkippedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// RankResult holds the outcome of a ranking run: the top-ranked stocks plus a
// skip report for observability.
type RankResult struct {
	Stocks       []RankedStock   `json:"stocks"`
	Skipped      []SkippedSymbol `json:"skipped,omitempty"`
	UsedFallback bool            `json:"used_fallback"`
}
