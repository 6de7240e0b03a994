// Package projection estimates future prices from historical trend
package projection

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/interfaces"
	"github.com/rgeddes/folio/internal/models"
)

// minObservations is the minimum history length for a trend fit.
const minObservations = 30

// daysPerMonth converts the projection horizon into trading-day index space.
const daysPerMonth = 30

// ErrInsufficientHistory is returned when a symbol has too little history
// and no fallback projection exists for it.
var ErrInsufficientHistory = errors.New("insufficient price history for projection")

// Service implements ProjectionService using an ordinary least squares fit
// over the trailing two years of daily closes.
type Service struct {
	client   interfaces.MarketDataClient
	fallback *models.Fallback
	logger   *common.Logger
}

// NewService creates a new projection service
func NewService(client interfaces.MarketDataClient, fallback *models.Fallback, logger *common.Logger) *Service {
	if fallback == nil {
		fallback = models.DefaultFallback()
	}
	return &Service{
		client:   client,
		fallback: fallback,
		logger:   logger,
	}
}

// ProjectGrowth fits a linear trend to the symbol's trailing two years of
// closes and extrapolates months ahead. Symbols with fewer than 30 closes
// fall back to the static projection table; symbols absent from the table
// return ErrInsufficientHistory.
func (s *Service) ProjectGrowth(ctx context.Context, symbol string, months int) (*models.ProjectionResult, error) {
	if months <= 0 {
		return nil, fmt.Errorf("projection months must be positive, got %d", months)
	}

	bars, err := s.client.GetDailyHistory(ctx, symbol, models.RangeTwoYears)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("History fetch failed, trying fallback")
		bars = nil
	}

	if len(bars) < minObservations {
		return s.projectFromFallback(symbol, months)
	}

	xs := make([]float64, len(bars))
	ys := make([]float64, len(bars))
	for i, bar := range bars {
		xs[i] = float64(i)
		ys[i] = bar.Close
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	futureIndex := float64(len(bars) + months*daysPerMonth)
	projected := intercept + slope*futureIndex
	current := ys[len(ys)-1]

	return buildResult(current, projected, months), nil
}

// HistoricalCloses returns the close series used for the trend fit, for
// chart rendering. The same two-year window as ProjectGrowth.
func (s *Service) HistoricalCloses(ctx context.Context, symbol string) ([]models.PriceBar, error) {
	return s.client.GetDailyHistory(ctx, symbol, models.RangeTwoYears)
}

func (s *Service) projectFromFallback(symbol string, months int) (*models.ProjectionResult, error) {
	pair, ok := s.fallback.Projections[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientHistory, symbol)
	}
	s.logger.Info().Str("symbol", symbol).Msg("Using fallback projection")
	return buildResult(pair.Current, pair.Projected, months), nil
}

func buildResult(current, projected float64, months int) *models.ProjectionResult {
	var growthPct float64
	if current != 0 {
		growthPct = (projected - current) / current * 100
	}
	return &models.ProjectionResult{
		CurrentPrice:     current,
		ProjectedPrice:   projected,
		GrowthPercentage: growthPct,
		MonthlyGrowth:    growthPct / float64(months),
	}
}
