// Package app wires configuration, storage, clients, and services into
// the shared core used by cmd/vtrade-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tradeforge/vtrade/internal/clients/yahoo"
	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/metrics"
	"github.com/tradeforge/vtrade/internal/models"
	"github.com/tradeforge/vtrade/internal/services/account"
	"github.com/tradeforge/vtrade/internal/services/bank"
	"github.com/tradeforge/vtrade/internal/services/iso"
	"github.com/tradeforge/vtrade/internal/services/ledger"
	"github.com/tradeforge/vtrade/internal/services/portfolio"
	"github.com/tradeforge/vtrade/internal/services/quote"
	"github.com/tradeforge/vtrade/internal/services/reset"
	"github.com/tradeforge/vtrade/internal/services/trade"
	"github.com/tradeforge/vtrade/internal/services/watchlist"
	"github.com/tradeforge/vtrade/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MarketClient     interfaces.MarketDataClient
	Metrics          *metrics.Collector
	QuoteService     interfaces.QuoteService
	LedgerService    interfaces.LedgerService
	TradeService     interfaces.TradeService
	PortfolioService interfaces.PortfolioService
	AccountService   interfaces.AccountService
	BankService      interfaces.BankService
	WatchListService interfaces.WatchListService
	IsoDataService   interfaces.IsoDataService
	ResetService     interfaces.ResetService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the full service graph. configPath may be empty,
// in which case VTRADE_CONFIG, then vtrade.toml beside the binary, then
// config/vtrade.toml are tried.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()
	if configPath == "" {
		configPath = os.Getenv("VTRADE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "vtrade.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/vtrade.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	marketClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Market.BaseURL),
		yahoo.WithRateLimit(config.Clients.Market.RateLimit),
		yahoo.WithTimeout(config.Clients.Market.GetTimeout()),
		yahoo.WithLogger(logger),
	)

	return newApp(config, logger, storageManager, marketClient), nil
}

// NewAppWithDependencies builds the service graph on preconstructed
// storage and market client. Used by tests.
func NewAppWithDependencies(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager, marketClient interfaces.MarketDataClient) *App {
	return newApp(config, logger, storageManager, marketClient)
}

func newApp(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager, marketClient interfaces.MarketDataClient) *App {
	quoteService := quote.NewService(marketClient, logger)
	isoService := iso.NewService(storageManager.IsoData(), logger)
	ledgerService := ledger.NewService(storageManager.Balances(), storageManager.Banks(), isoService, logger)
	portfolioService := portfolio.NewService(storageManager.Portfolios(), storageManager.Trades(), quoteService, logger)
	tradeService := trade.NewService(
		storageManager.Accounts(),
		storageManager.Trades(),
		storageManager.Balances(),
		ledgerService,
		quoteService,
		portfolioService,
		logger,
	)
	accountService := account.NewService(
		storageManager.Accounts(),
		storageManager.Traders(),
		models.RiskTolerance(config.Trading.DefaultRiskTolerance),
		logger,
	)

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketClient:     marketClient,
		Metrics:          metrics.NewCollector(),
		QuoteService:     quoteService,
		LedgerService:    ledgerService,
		TradeService:     tradeService,
		PortfolioService: portfolioService,
		AccountService:   accountService,
		BankService:      bank.NewService(storageManager.Banks(), logger),
		WatchListService: watchlist.NewService(storageManager.WatchLists(), quoteService, logger),
		IsoDataService:   isoService,
		ResetService:     reset.NewService(storageManager, logger),
		StartupTime:      time.Now(),
	}
}

// Close releases the storage.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
