package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rgeddes/folio/internal/app"
	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
	"github.com/rgeddes/folio/internal/storage/memory"
)

// --- service mocks ---

type mockRanking struct {
	result *models.RankResult
	err    error
}

func (m *mockRanking) RankUniverse(_ context.Context) (*models.RankResult, error) {
	return m.result, m.err
}

type mockAllocation struct{}

func (m *mockAllocation) BuildPortfolio(selections []models.Selection, amount float64) (*models.Portfolio, error) {
	if len(selections) == 0 {
		return nil, errors.New("no stocks selected")
	}
	if amount <= 0 {
		return nil, errors.New("investment amount must be positive")
	}
	return &models.Portfolio{
		Lines:                []models.PortfolioLine{{Symbol: selections[0].Symbol, Shares: 1}},
		TotalAllocation:      selections[0].CurrentPrice,
		DiversificationScore: 0,
	}, nil
}

type mockProjection struct {
	result *models.ProjectionResult
	err    error
}

func (m *mockProjection) ProjectGrowth(_ context.Context, symbol string, months int) (*models.ProjectionResult, error) {
	return m.result, m.err
}

type mockMarket struct {
	history []models.PriceBar
	err     error
}

func (m *mockMarket) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	return nil, errors.New("not used")
}

func (m *mockMarket) GetDailyHistory(_ context.Context, symbol string, _ models.HistoryRange) ([]models.PriceBar, error) {
	return m.history, m.err
}

// --- harness ---

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.Google.ClientID = "test-client"
	cfg.Auth.Google.ClientSecret = "test-client-secret"
	logger := common.NewSilentLogger()

	return &app.App{
		Config:            cfg,
		Logger:            logger,
		Users:             memory.NewUserStore(logger),
		States:            memory.NewStateStore(logger),
		MarketClient:      &mockMarket{},
		RankingService:    &mockRanking{result: &models.RankResult{}},
		AllocationService: &mockAllocation{},
		ProjectionService: &mockProjection{result: &models.ProjectionResult{}},
		Fallback:          models.DefaultFallback(),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(newTestApp(t))
}

// loginAs stores the user and returns a valid session cookie for them.
func loginAs(t *testing.T, s *Server, user *models.User) *http.Cookie {
	t.Helper()
	if err := s.app.Users.PutUser(context.Background(), user); err != nil {
		t.Fatalf("PutUser: %v", err)
	}
	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func testUser() *models.User {
	return &models.User{ID: "google_1", Email: "alice@example.com", Name: "Alice"}
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}
