// Package storage wires the BadgerHold-backed storage areas behind the
// StorageManager interface.
package storage

import (
	"fmt"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/storage/badger"
)

// Manager aggregates the per-aggregate storages over a single BadgerHold
// database.
type Manager struct {
	store      *badger.Store
	accounts   interfaces.AccountStorage
	traders    interfaces.TraderStorage
	balances   interfaces.BalanceStorage
	banks      interfaces.BankStorage
	trades     interfaces.TradingStorage
	portfolios interfaces.PortfolioStorage
	isoData    interfaces.IsoDataStorage
	watchLists interfaces.WatchListStorage
	logger     *common.Logger
}

// NewManager opens the database at the configured path and builds all
// storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &Manager{
		store:      store,
		accounts:   badger.NewAccountStorage(store, logger),
		traders:    badger.NewTraderStorage(store, logger),
		balances:   badger.NewBalanceStorage(store, logger),
		banks:      badger.NewBankStorage(store, logger),
		trades:     badger.NewTradingStorage(store, logger),
		portfolios: badger.NewPortfolioStorage(store, logger),
		isoData:    badger.NewIsoDataStorage(store, logger),
		watchLists: badger.NewWatchListStorage(store, logger),
		logger:     logger,
	}, nil
}

func (m *Manager) Accounts() interfaces.AccountStorage     { return m.accounts }
func (m *Manager) Traders() interfaces.TraderStorage       { return m.traders }
func (m *Manager) Balances() interfaces.BalanceStorage     { return m.balances }
func (m *Manager) Banks() interfaces.BankStorage           { return m.banks }
func (m *Manager) Trades() interfaces.TradingStorage       { return m.trades }
func (m *Manager) Portfolios() interfaces.PortfolioStorage { return m.portfolios }
func (m *Manager) IsoData() interfaces.IsoDataStorage      { return m.isoData }
func (m *Manager) WatchLists() interfaces.WatchListStorage { return m.watchLists }

// Close closes the underlying database.
func (m *Manager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
