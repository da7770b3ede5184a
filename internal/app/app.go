// Package app wires configuration, clients, storage, and services into a
// runnable application core shared by the server and CLI entrypoints.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwhitfield/perfolio/internal/clients/eodhd"
	"github.com/mwhitfield/perfolio/internal/clients/yahoo"
	"github.com/mwhitfield/perfolio/internal/common"
	"github.com/mwhitfield/perfolio/internal/interfaces"
	"github.com/mwhitfield/perfolio/internal/services/analysis"
	"github.com/mwhitfield/perfolio/internal/services/market"
	"github.com/mwhitfield/perfolio/internal/services/report"
	"github.com/mwhitfield/perfolio/internal/storage/marketfs"
)

// App holds all initialized services and clients.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Cache           interfaces.MarketDataStorage
	MarketService   interfaces.MarketService
	AnalysisService interfaces.AnalysisService
	ReportService   interfaces.ReportService
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services and clients. configPath may be empty, in
// which case PERFOLIO_CONFIG and then the binary directory are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("PERFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "perfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/perfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative cache path to binary directory
	if config.Cache.Path != "" && !filepath.IsAbs(config.Cache.Path) {
		config.Cache.Path = filepath.Join(binDir, config.Cache.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	var cache interfaces.MarketDataStorage
	if config.Cache.Enabled {
		store, err := marketfs.NewStore(logger, config.Cache.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize market cache: %w", err)
		}
		cache = store
	}

	// Price sources in preference order. EODHD needs a key; Yahoo does not.
	var sources []interfaces.PriceSource
	if config.Clients.EODHD.APIKey != "" {
		sources = append(sources, eodhd.NewClient(config.Clients.EODHD.APIKey,
			eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
			eodhd.WithLogger(logger),
			eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
			eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
		))
	} else {
		logger.Warn().Msg("EODHD API key not configured - falling back to Yahoo Finance only")
	}
	if config.Clients.Yahoo.Enabled {
		sources = append(sources, yahoo.NewClient(yahoo.WithLogger(logger)))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no price sources configured")
	}

	marketService := market.NewService(sources, cache, logger)
	analysisService := analysis.NewService(marketService, logger)
	reportService := report.NewService(logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Cache:           cache,
		MarketService:   marketService,
		AnalysisService: analysisService,
		ReportService:   reportService,
	}

	logger.Info().Str("environment", config.Environment).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Cache != nil {
		a.Cache.Close()
		a.Cache = nil
	}
}
