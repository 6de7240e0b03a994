package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// ProjectionPair is a literal current/projected price pair used when a
// symbol's price history is too short to fit a trend.
type ProjectionPair struct {
	Current   float64 `json:"current"`
	Projected float64 `json:"projected"`
}

// Fallback holds the stand-in datasets applied when live market data is
// insufficient. Kept out of the engines themselves so production logic
// carries no inline demo literals and tests can inject their own.
type Fallback struct {
	Stocks       []RankedStock             `json:"stocks"`
	Projections  map[string]ProjectionPair `json:"projections"`
	Prices       map[string]float64        `json:"prices"`
	DefaultPrice float64                   `json:"default_price"`
}

// LoadFallback reads a fallback dataset from a JSON file. Fields absent from
// the file keep their default values.
func LoadFallback(path string) (*Fallback, error) {
	fb := DefaultFallback()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, fb); err != nil {
		return nil, fmt.Errorf("failed to parse fallback file %s: %w", path, err)
	}
	return fb, nil
}

// DefaultFallback returns the built-in demo dataset.
func DefaultFallback() *Fallback {
	return &Fallback{
		Stocks: []RankedStock{
			fallbackStock("AAPL", "Apple Inc.", 25.5, 1.2, 0.5, 9.07, 150.0),
			fallbackStock("MSFT", "Microsoft Corporation", 30.2, 1.4, 0.8, 10.80, 300.0),
			fallbackStock("GOOGL", "Alphabet Inc.", 28.1, 1.1, 0.0, 9.70, 2500.0),
			fallbackStock("AMZN", "Amazon.com Inc.", 35.0, 1.3, 0.0, 12.10, 3500.0),
			fallbackStock("NVDA", "NVIDIA Corporation", 45.2, 1.8, 0.1, 15.70, 450.0),
			fallbackStock("META", "Meta Platforms Inc.", 22.3, 1.0, 0.0, 7.77, 200.0),
			fallbackStock("TSLA", "Tesla Inc.", 50.1, 1.5, 0.0, 17.20, 250.0),
			fallbackStock("JPM", "JPMorgan Chase & Co.", 12.5, 0.8, 2.5, 5.27, 150.0),
			fallbackStock("JNJ", "Johnson & Johnson", 18.2, 0.9, 2.8, 7.30, 160.0),
			fallbackStock("PG", "Procter & Gamble Co.", 20.1, 0.7, 2.4, 7.73, 140.0),
		},
		Projections: map[string]ProjectionPair{
			"AAPL":  {Current: 150.0, Projected: 165.0},
			"MSFT":  {Current: 300.0, Projected: 330.0},
			"GOOGL": {Current: 2500.0, Projected: 2750.0},
			"AMZN":  {Current: 3500.0, Projected: 3850.0},
			"NVDA":  {Current: 450.0, Projected: 495.0},
			"META":  {Current: 200.0, Projected: 220.0},
			"TSLA":  {Current: 250.0, Projected: 275.0},
			"JPM":   {Current: 150.0, Projected: 157.5},
			"JNJ":   {Current: 160.0, Projected: 168.0},
			"PG":    {Current: 140.0, Projected: 147.0},
		},
		Prices: map[string]float64{
			"AAPL": 150.0, "MSFT": 300.0, "GOOGL": 2500.0, "AMZN": 3500.0,
			"NVDA": 450.0, "META": 200.0, "TSLA": 250.0, "JPM": 150.0,
			"JNJ": 160.0, "PG": 140.0,
		},
		DefaultPrice: 100.0,
	}
}

// PriceFor resolves a fallback price for a symbol, using the global default
// when the symbol has no entry.
func (fb *Fallback) PriceFor(symbol string) float64 {
	if p, ok := fb.Prices[symbol]; ok {
		return p
	}
	return fb.DefaultPrice
}

func fallbackStock(symbol, name string, pe, sharpe, yield, avg, price float64) RankedStock {
	return RankedStock{
		MetricSet: MetricSet{
			Symbol:        symbol,
			CompanyName:   name,
			PERatio:       Float(pe),
			SharpeRatio:   Float(sharpe),
			DividendYield: Float(yield),
			Average:       avg,
		},
		CurrentPrice: price,
	}
}

// Float returns a pointer to v. Convenience for optional metric fields.
func Float(v float64) *float64 {
	return &v
}
