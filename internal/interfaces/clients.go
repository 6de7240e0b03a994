// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/rgeddes/folio/internal/models"
)

// MarketDataClient provides access to the market data provider.
type MarketDataClient interface {
	// GetQuote retrieves the current price and fundamentals for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetDailyHistory retrieves daily closes for a symbol over the trailing
	// period, oldest first. Bars without a close are omitted.
	GetDailyHistory(ctx context.Context, symbol string, period models.HistoryRange) ([]models.PriceBar, error)
}
