package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// minSharpeObservations is the minimum number of daily closes required
// before a Sharpe ratio is considered meaningful.
const minSharpeObservations = 30

// tradingDaysPerYear is the annualization factor for daily returns.
const tradingDaysPerYear = 252

// CalculateReturns converts prices to percentage returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CalculateSharpeRatio computes the annualized Sharpe ratio from a daily
// close series. Returns nil when there are fewer than minSharpeObservations
// closes, when volatility is zero (flat series), or when the result is
// not finite.
func CalculateSharpeRatio(closes []float64, riskFreeRate float64) *float64 {
	if len(closes) < minSharpeObservations {
		return nil
	}

	returns := CalculateReturns(closes)
	meanReturn := stat.Mean(returns, nil)
	stdDev := stat.StdDev(returns, nil)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / tradingDaysPerYear
	sharpe := (meanReturn - periodicRiskFree) / stdDev * math.Sqrt(tradingDaysPerYear)

	if math.IsNaN(sharpe) || math.IsInf(sharpe, 0) {
		return nil
	}
	return &sharpe
}
