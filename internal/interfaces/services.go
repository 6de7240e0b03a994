package interfaces

import (
	"context"

	"github.com/rgeddes/folio/internal/models"
)

// MetricsService computes per-symbol scoring metrics.
type MetricsService interface {
	// ComputeMetrics derives the metric set for a symbol. Metric-level
	// failures leave individual metrics nil; only provider fetch failures
	// surface as errors.
	ComputeMetrics(ctx context.Context, symbol string) (*models.MetricSet, error)

	// CurrentPrice returns the live price for a symbol
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// RankingService scores the equity universe and returns the top stocks.
type RankingService interface {
	// RankUniverse computes metrics for the configured slice of the universe,
	// sorts by average metric, and returns the top stocks with resolved prices.
	RankUniverse(ctx context.Context) (*models.RankResult, error)
}

// AllocationService builds equal-weight portfolios from ranked selections.
type AllocationService interface {
	// BuildPortfolio splits amount equally across the selections and computes
	// whole-share positions. Returns an error when selections is empty or
	// amount is not positive.
	BuildPortfolio(selections []models.Selection, amount float64) (*models.Portfolio, error)
}

// ProjectionService estimates future prices from historical trend.
type ProjectionService interface {
	// ProjectGrowth fits a linear trend to the symbol's trailing two years of
	// closes and extrapolates months ahead.
	ProjectGrowth(ctx context.Context, symbol string, months int) (*models.ProjectionResult, error)
}
