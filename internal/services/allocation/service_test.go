package allocation

import (
	"math"
	"testing"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
)

func newTestService() *Service {
	return NewService(common.NewSilentLogger())
}

func TestBuildPortfolio_EqualWeightWholeShares(t *testing.T) {
	selections := []models.Selection{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", CurrentPrice: 150},
		{Symbol: "MSFT", CompanyName: "Microsoft Corporation", CurrentPrice: 300},
		{Symbol: "GOOGL", CompanyName: "Alphabet Inc.", CurrentPrice: 2500},
	}

	p, err := newTestService().BuildPortfolio(selections, 10000)
	if err != nil {
		t.Fatalf("BuildPortfolio: %v", err)
	}

	wantShares := []int{22, 11, 1}
	for i, want := range wantShares {
		if p.Lines[i].Shares != want {
			t.Errorf("%s shares = %d, want %d", p.Lines[i].Symbol, p.Lines[i].Shares, want)
		}
	}
	if p.TotalAllocation != 9100 {
		t.Errorf("TotalAllocation = %v, want 9100", p.TotalAllocation)
	}
	// Max position is 3300 of 10000 requested
	if math.Abs(p.DiversificationScore-0.67) > 1e-9 {
		t.Errorf("DiversificationScore = %v, want 0.67", p.DiversificationScore)
	}
	if math.Abs(p.Lines[0].Percentage-33.0) > 1e-9 {
		t.Errorf("AAPL percentage = %v, want 33.0", p.Lines[0].Percentage)
	}
}

func TestBuildPortfolio_EmptySelection(t *testing.T) {
	if _, err := newTestService().BuildPortfolio(nil, 10000); err == nil {
		t.Error("expected error for empty selection")
	}
}

func TestBuildPortfolio_NonPositiveAmount(t *testing.T) {
	selections := []models.Selection{{Symbol: "AAPL", CurrentPrice: 150}}
	if _, err := newTestService().BuildPortfolio(selections, 0); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := newTestService().BuildPortfolio(selections, -500); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestBuildPortfolio_ZeroPriceKeepsLineWithZeroShares(t *testing.T) {
	selections := []models.Selection{
		{Symbol: "GOOD", CurrentPrice: 100},
		{Symbol: "BAD", CurrentPrice: 0},
	}

	p, err := newTestService().BuildPortfolio(selections, 1000)
	if err != nil {
		t.Fatalf("BuildPortfolio: %v", err)
	}

	if len(p.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(p.Lines))
	}
	if p.Lines[1].Symbol != "BAD" || p.Lines[1].Shares != 0 || p.Lines[1].Allocation != 0 {
		t.Errorf("expected zero-share line for BAD, got %+v", p.Lines[1])
	}
	if p.Lines[0].Shares != 5 {
		t.Errorf("GOOD shares = %d, want 5", p.Lines[0].Shares)
	}
	if p.TotalAllocation != 500 {
		t.Errorf("TotalAllocation = %v, want 500", p.TotalAllocation)
	}
}

func TestBuildPortfolio_SingleStockFullyConcentrated(t *testing.T) {
	selections := []models.Selection{{Symbol: "AAPL", CurrentPrice: 100}}

	p, err := newTestService().BuildPortfolio(selections, 1000)
	if err != nil {
		t.Fatalf("BuildPortfolio: %v", err)
	}

	if p.Lines[0].Shares != 10 {
		t.Errorf("shares = %d, want 10", p.Lines[0].Shares)
	}
	// All capital in one symbol: no diversification
	if math.Abs(p.DiversificationScore) > 1e-9 {
		t.Errorf("DiversificationScore = %v, want 0", p.DiversificationScore)
	}
}

func TestBuildPortfolio_PriceAboveSliceBuysNothing(t *testing.T) {
	selections := []models.Selection{
		{Symbol: "CHEAP", CurrentPrice: 10},
		{Symbol: "PRICEY", CurrentPrice: 5000},
	}

	p, err := newTestService().BuildPortfolio(selections, 1000)
	if err != nil {
		t.Fatalf("BuildPortfolio: %v", err)
	}

	if p.Lines[1].Shares != 0 {
		t.Errorf("PRICEY shares = %d, want 0 (per-stock slice below price)", p.Lines[1].Shares)
	}
	if p.Lines[0].Shares != 50 {
		t.Errorf("CHEAP shares = %d, want 50", p.Lines[0].Shares)
	}
}
