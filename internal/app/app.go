// Package app wires configuration, clients, services and storage into one
// runnable application core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finsightlab/finsight/internal/clients/eodhd"
	"github.com/finsightlab/finsight/internal/clients/gemini"
	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
	"github.com/finsightlab/finsight/internal/models"
	"github.com/finsightlab/finsight/internal/services/analysis"
	"github.com/finsightlab/finsight/internal/services/fetcher"
	"github.com/finsightlab/finsight/internal/services/parser"
	"github.com/finsightlab/finsight/internal/services/resolver"
	"github.com/finsightlab/finsight/internal/storage/analysisdb"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	AnalysisStore   interfaces.AnalysisStore
	MarketClient    interfaces.MarketDataClient
	NarrativeClient interfaces.NarrativeClient
	AnalysisService interfaces.AnalysisService
	AliasVersion    string
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, the alias table, clients, the pipeline
// services and storage. configPath may be empty, in which case the default
// resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Load configuration: provided path, FINSIGHT_CONFIG, binary dir, then
	// the development fallback.
	if configPath == "" {
		configPath = os.Getenv("FINSIGHT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "finsight.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finsight.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Analyses.Path != "" && !filepath.IsAbs(config.Storage.Analyses.Path) {
		config.Storage.Analyses.Path = filepath.Join(binDir, config.Storage.Analyses.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// Load the alias table; an explicit path replaces the built-in table.
	table, err := loadAliasTable(config.Aliases.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load alias table: %w", err)
	}
	logger.Info().
		Str("version", table.Version()).
		Int("instruments", table.Len()).
		Msg("Alias table loaded")

	// Market data client
	if config.Clients.EODHD.APIKey == "" {
		return nil, fmt.Errorf("EODHD API key not configured")
	}
	eodhdOpts := []eodhd.ClientOption{
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	}
	if config.Clients.EODHD.BaseURL != "" {
		eodhdOpts = append(eodhdOpts, eodhd.WithBaseURL(config.Clients.EODHD.BaseURL))
	}
	marketClient := eodhd.NewClient(config.Clients.EODHD.APIKey, eodhdOpts...)

	// Narrative client is optional; scenario analysis degrades to 503.
	var narrativeClient interfaces.NarrativeClient
	if config.Clients.Gemini.APIKey != "" {
		geminiOpts := []gemini.ClientOption{gemini.WithLogger(logger)}
		if config.Clients.Gemini.Model != "" {
			geminiOpts = append(geminiOpts, gemini.WithModel(config.Clients.Gemini.Model))
		}
		client, err := gemini.NewClient(context.Background(), config.Clients.Gemini.APIKey, geminiOpts...)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client - scenario analysis will be unavailable")
		} else {
			narrativeClient = client
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - scenario analysis will be unavailable")
	}

	// Pipeline services
	parserSvc := parser.NewService(logger)
	resolverSvc := resolver.NewService(table, logger)
	fetcherSvc := fetcher.NewService(marketClient, config.Engine, logger)
	analysisSvc := analysis.NewService(parserSvc, resolverSvc, fetcherSvc, config.Engine, logger)

	// Storage
	store, err := analysisdb.NewStore(logger, config.Storage.Analyses.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analysis store: %w", err)
	}

	a := &App{
		Config:          config,
		Logger:          logger,
		AnalysisStore:   store,
		MarketClient:    marketClient,
		NarrativeClient: narrativeClient,
		AnalysisService: analysisSvc,
		AliasVersion:    table.Version(),
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// loadAliasTable loads the alias table from path, or the built-in table when
// path is empty.
func loadAliasTable(path string) (*models.AliasTable, error) {
	if path == "" {
		return resolver.DefaultTable(), nil
	}
	return resolver.LoadTableFile(path)
}

// Close releases application resources.
func (a *App) Close() {
	if a.AnalysisStore != nil {
		a.AnalysisStore.Close()
		a.AnalysisStore = nil
	}
}
