package models

// Selection is one stock chosen for portfolio construction, as submitted by
// the client from a previous ranking response.
type Selection struct {
	Symbol       string  `json:"symbol"`
	CurrentPrice float64 `json:"current_price"`
	CompanyName  string  `json:"company_name"`
}

// PortfolioLine is one equal-weight position in a constructed portfolio.
// Shares are whole units; the residual cash below one share stays unallocated,
// so percentages need not sum to 100.
type PortfolioLine struct {
	Symbol      string  `json:"symbol"`
	Shares      int     `json:"shares"`
	Allocation  float64 `json:"allocation"`
	Percentage  float64 `json:"percentage"`
	CompanyName string  `json:"company_name"`
}

// Portfolio is the result of an equal-weight allocation run. Ephemeral,
// computed per request.
type Portfolio struct {
	Lines                []PortfolioLine `json:"portfolio"`
	TotalAllocation      float64         `json:"total_allocation"`
	DiversificationScore float64         `json:"diversification_score"`
}

// ProjectionResult is a linear-trend price projection for one symbol.
type ProjectionResult struct {
	CurrentPrice     float64 `json:"current_price"`
	ProjectedPrice   float64 `json:"projected_price"`
	GrowthPercentage float64 `json:"growth_percentage"`
	MonthlyGrowth    float64 `json:"monthly_growth"`
}
