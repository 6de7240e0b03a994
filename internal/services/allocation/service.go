// Package allocation builds equal-weight portfolios from ranked selections
package allocation

import (
	"fmt"
	"math"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
)

// Service implements AllocationService.
type Service struct {
	logger *common.Logger
}

// NewService creates a new allocation service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// BuildPortfolio splits amount equally across the selections and computes
// whole-share positions. Shares are floored, so the invested total is at
// most the requested amount. A selection with a non-positive price keeps
// its line with zero shares rather than failing the whole portfolio.
func (s *Service) BuildPortfolio(selections []models.Selection, amount float64) (*models.Portfolio, error) {
	if len(selections) == 0 {
		return nil, fmt.Errorf("no stocks selected")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("investment amount must be positive, got %.2f", amount)
	}

	perStock := amount / float64(len(selections))

	portfolio := &models.Portfolio{
		Lines: make([]models.PortfolioLine, 0, len(selections)),
	}

	var total float64
	for _, sel := range selections {
		line := models.PortfolioLine{
			Symbol:      sel.Symbol,
			CompanyName: sel.CompanyName,
		}
		if sel.CurrentPrice > 0 {
			shares := int(math.Floor(perStock / sel.CurrentPrice))
			line.Shares = shares
			line.Allocation = float64(shares) * sel.CurrentPrice
		}
		total += line.Allocation
		portfolio.Lines = append(portfolio.Lines, line)
	}

	// Percentages are of the requested amount; flooring leaves the rest as cash
	var maxPct float64
	for i := range portfolio.Lines {
		portfolio.Lines[i].Percentage = portfolio.Lines[i].Allocation / amount * 100
		if portfolio.Lines[i].Percentage > maxPct {
			maxPct = portfolio.Lines[i].Percentage
		}
	}

	portfolio.TotalAllocation = total
	portfolio.DiversificationScore = 1 - maxPct/100

	s.logger.Debug().
		Int("positions", len(portfolio.Lines)).
		Float64("total", total).
		Msg("Portfolio built")

	return portfolio, nil
}
