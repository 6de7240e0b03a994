package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rgeddes/folio/internal/models"
	"github.com/rgeddes/folio/internal/services/projection"
)

// handleAnalyze handles POST /analyze - rank the universe and return the
// top stocks with resolved prices.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	result, err := s.app.RankingService.RankUniverse(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"stocks":        result.Stocks,
		"skipped":       result.Skipped,
		"used_fallback": result.UsedFallback,
	})
}

// handleCreatePortfolio handles POST /create_portfolio - equal-weight
// allocation across the selected stocks.
func (s *Server) handleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		SelectedStocks  []models.Selection `json:"selected_stocks"`
		PortfolioAmount float64            `json:"portfolio_amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	portfolio, err := s.app.AllocationService.BuildPortfolio(req.SelectedStocks, req.PortfolioAmount)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":               true,
		"portfolio":             portfolio.Lines,
		"total_allocation":      portfolio.TotalAllocation,
		"diversification_score": portfolio.DiversificationScore,
	})
}

// handleGrowthProjection handles POST /growth_projection - linear trend
// extrapolation for one symbol.
func (s *Server) handleGrowthProjection(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Symbol string `json:"symbol"`
		Months int    `json:"months"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	result, err := s.app.ProjectionService.ProjectGrowth(r.Context(), req.Symbol, req.Months)
	if err != nil {
		if errors.Is(err, projection.ErrInsufficientHistory) {
			WriteError(w, http.StatusUnprocessableEntity, "Unable to calculate projection")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"projection": result,
	})
}

// handleGrowthChart handles GET /growth_chart?symbol=AAPL&months=6 - PNG
// render of the close series with the fitted trend.
func (s *Server) handleGrowthChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			WriteError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = m
	}

	bars, err := s.app.MarketClient.GetDailyHistory(r.Context(), symbol, models.RangeTwoYears)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Chart history fetch failed")
		WriteError(w, http.StatusBadGateway, "failed to fetch price history")
		return
	}

	png, err := projection.RenderProjectionChart(symbol, bars, months)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
