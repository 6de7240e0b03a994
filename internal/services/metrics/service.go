// Package metrics computes the per-symbol scoring metrics
package metrics

import (
	"context"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/interfaces"
	"github.com/rgeddes/folio/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Service computes MetricSets from provider data. Each metric fails soft:
// missing provider fields or short history produce a nil metric, never an
// error, so one bad field does not sink the symbol.
type Service struct {
	client       interfaces.MarketDataClient
	logger       *common.Logger
	riskFreeRate float64
}

// NewService creates a new metrics service
func NewService(client interfaces.MarketDataClient, riskFreeRate float64, logger *common.Logger) *Service {
	return &Service{
		client:       client,
		logger:       logger,
		riskFreeRate: riskFreeRate,
	}
}

// ComputeMetrics fetches quote and history for a symbol and derives the
// metric set. Only provider fetch failures surface as errors; metric-level
// problems leave the metric nil. Average is populated when at least two
// metrics are present, otherwise it stays zero and the caller treats the
// symbol as unqualified.
func (s *Service) ComputeMetrics(ctx context.Context, symbol string) (*models.MetricSet, error) {
	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	m := &models.MetricSet{
		Symbol:      symbol,
		CompanyName: quote.CompanyName,
	}

	if quote.TrailingPE != nil && *quote.TrailingPE > 0 {
		m.PERatio = models.Float(*quote.TrailingPE)
	}
	if quote.DividendYield != nil {
		// Provider reports a raw fraction; the metric is a percentage.
		m.DividendYield = models.Float(*quote.DividendYield * 100)
	}

	m.SharpeRatio = s.computeSharpe(ctx, symbol)

	if vals := m.AvailableMetrics(); len(vals) >= 2 {
		m.Average = stat.Mean(vals, nil)
	}

	return m, nil
}

// CurrentPrice returns the live price for a symbol, or an error when the
// provider cannot supply one.
func (s *Service) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (s *Service) computeSharpe(ctx context.Context, symbol string) *float64 {
	bars, err := s.client.GetDailyHistory(ctx, symbol, models.RangeOneYear)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("History unavailable for Sharpe")
		return nil
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return CalculateSharpeRatio(closes, s.riskFreeRate)
}
