// Package app wires configuration, clients, storage, and services into the
// shared application core used by cmd/folio-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rgeddes/folio/internal/clients/yahoo"
	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/interfaces"
	"github.com/rgeddes/folio/internal/models"
	"github.com/rgeddes/folio/internal/services/allocation"
	"github.com/rgeddes/folio/internal/services/metrics"
	"github.com/rgeddes/folio/internal/services/projection"
	"github.com/rgeddes/folio/internal/services/ranking"
	"github.com/rgeddes/folio/internal/storage/memory"
)

// App holds all initialized services and clients.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Users             interfaces.UserStore
	States            interfaces.StateStore
	MarketClient      interfaces.MarketDataClient
	MetricsService    interfaces.MetricsService
	RankingService    interfaces.RankingService
	AllocationService interfaces.AllocationService
	ProjectionService interfaces.ProjectionService
	Fallback          *models.Fallback
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, the market data client, the
// user directory, and the analysis services. configPath may be empty, in
// which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Load configuration - check provided path, FOLIO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	if missing := config.ValidateRequired(); len(missing) > 0 {
		logger.Warn().
			Strs("missing", missing).
			Msg("Auth configuration incomplete - login will be unavailable")
	}

	fallback, err := loadFallback(config, logger)
	if err != nil {
		return nil, err
	}

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	userStore := memory.NewUserStore(logger)
	stateStore := memory.NewStateStore(logger)

	metricsService := metrics.NewService(marketClient, config.Analyzer.RiskFreeRate, logger)
	rankingService := ranking.NewService(metricsService, models.SP500Universe, fallback, ranking.Options{
		UniverseLimit: config.Analyzer.UniverseLimit,
		MinQualified:  config.Analyzer.MinQualified,
		TopN:          config.Analyzer.TopN,
	}, logger)
	allocationService := allocation.NewService(logger)
	projectionService := projection.NewService(marketClient, fallback, logger)

	return &App{
		Config:            config,
		Logger:            logger,
		Users:             userStore,
		States:            stateStore,
		MarketClient:      marketClient,
		MetricsService:    metricsService,
		RankingService:    rankingService,
		AllocationService: allocationService,
		ProjectionService: projectionService,
		Fallback:          fallback,
		StartupTime:       time.Now(),
	}, nil
}

// loadFallback resolves the demo dataset, preferring the configured JSON
// file over the built-in table.
func loadFallback(config *common.Config, logger *common.Logger) (*models.Fallback, error) {
	if config.Analyzer.FallbackFile == "" {
		return models.DefaultFallback(), nil
	}
	fb, err := models.LoadFallback(config.Analyzer.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback data: %w", err)
	}
	logger.Info().Str("path", config.Analyzer.FallbackFile).Msg("Fallback data loaded from file")
	return fb, nil
}

// Close releases application resources. The in-memory user directory needs
// no teardown; this exists so main has a single shutdown hook.
func (a *App) Close() error {
	a.Logger.Info().Msg("Application closed")
	return nil
}
