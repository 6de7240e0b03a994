// Package ranking scores the equity universe and selects the top stocks
package ranking

import (
	"context"
	"sort"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/interfaces"
	"github.com/rgeddes/folio/internal/models"
)

// Options holds the ranking tuning knobs, lifted from AnalyzerConfig.
type Options struct {
	UniverseLimit int // symbols processed per run
	MinQualified  int // below this count the fallback set kicks in
	TopN          int // ranked stocks returned
}

// Service implements RankingService. It walks a prefix of the universe,
// qualifies symbols on metric coverage, and pads thin results with the
// fallback set so the caller always has something to allocate against.
type Service struct {
	metrics  interfaces.MetricsService
	universe []string
	fallback *models.Fallback
	opts     Options
	logger   *common.Logger
}

// NewService creates a new ranking service
func NewService(metrics interfaces.MetricsService, universe []string, fallback *models.Fallback, opts Options, logger *common.Logger) *Service {
	if fallback == nil {
		fallback = models.DefaultFallback()
	}
	return &Service{
		metrics:  metrics,
		universe: universe,
		fallback: fallback,
		opts:     opts,
		logger:   logger,
	}
}

// RankUniverse computes metrics for the configured slice of the universe,
// sorts by average metric, and returns the top stocks with resolved prices.
// A symbol qualifies with at least two of the three metrics; the rest are
// reported in Skipped with a reason. When fewer than MinQualified symbols
// qualify, the fallback set is appended once before sorting.
func (s *Service) RankUniverse(ctx context.Context) (*models.RankResult, error) {
	limit := s.opts.UniverseLimit
	if limit <= 0 || limit > len(s.universe) {
		limit = len(s.universe)
	}

	result := &models.RankResult{}
	var candidates []models.RankedStock

	for _, symbol := range s.universe[:limit] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := s.metrics.ComputeMetrics(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Symbol skipped")
			result.Skipped = append(result.Skipped, models.SkippedSymbol{
				Symbol: symbol,
				Reason: models.SkipReasonFetchError,
			})
			continue
		}

		if len(m.AvailableMetrics()) < 2 {
			result.Skipped = append(result.Skipped, models.SkippedSymbol{
				Symbol: symbol,
				Reason: models.SkipReasonInsufficientMetrics,
			})
			continue
		}

		candidates = append(candidates, models.RankedStock{MetricSet: *m})
	}

	if len(candidates) < s.opts.MinQualified {
		s.logger.Info().
			Int("qualified", len(candidates)).
			Int("min_qualified", s.opts.MinQualified).
			Msg("Thin result, appending fallback set")
		candidates = append(candidates, s.fallback.Stocks...)
		result.UsedFallback = true
	}

	// Stable sort keeps universe order among equal averages
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Average > candidates[j].Average
	})

	if len(candidates) > s.opts.TopN && s.opts.TopN > 0 {
		candidates = candidates[:s.opts.TopN]
	}

	for i := range candidates {
		// Fallback entries carry their price; only live candidates resolve.
		if candidates[i].CurrentPrice > 0 {
			continue
		}
		candidates[i].CurrentPrice = s.resolvePrice(ctx, candidates[i].Symbol)
	}

	result.Stocks = candidates
	return result, nil
}

// resolvePrice prefers the live quote, then the fallback table, then the
// global default.
func (s *Service) resolvePrice(ctx context.Context, symbol string) float64 {
	price, err := s.metrics.CurrentPrice(ctx, symbol)
	if err == nil && price > 0 {
		return price
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Live price unavailable")
	}
	return s.fallback.PriceFor(symbol)
}
