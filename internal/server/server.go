// Package server implements the HTTP surface of Folio.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rgeddes/folio/internal/app"
	"github.com/rgeddes/folio/internal/common"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app          *app.App
	server       *http.Server
	logger       *common.Logger
	shutdownChan chan struct{}

	// Provider endpoints, overridable in tests.
	authURL     string
	tokenURL    string
	userinfoURL string
}

// SetShutdownChannel sets the channel that will be signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:         a,
		logger:      a.Logger,
		authURL:     googleAuthURL,
		tokenURL:    googleTokenURL,
		userinfoURL: googleUserinfoURL,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	host := a.Config.Server.Host
	port := a.Config.Server.Port

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// registerRoutes sets up all routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("/", s.handleIndex)

	// Auth
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/callback", s.handleCallback)
	mux.HandleFunc("/logout", s.requireAuth(s.handleLogout))

	// Analysis
	mux.HandleFunc("/analyze", s.requireAuth(s.handleAnalyze))
	mux.HandleFunc("/create_portfolio", s.requireAuth(s.handleCreatePortfolio))
	mux.HandleFunc("/growth_projection", s.requireAuth(s.handleGrowthProjection))
	mux.HandleFunc("/growth_chart", s.requireAuth(s.handleGrowthChart))

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
}
