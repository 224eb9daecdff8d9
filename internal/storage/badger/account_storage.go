package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
)

type accountStorage struct {
	store  *Store
	logger *common.Logger
}

// NewAccountStorage creates a new AccountStorage backed by BadgerHold.
func NewAccountStorage(store *Store, logger *common.Logger) *accountStorage {
	return &accountStorage{store: store, logger: logger}
}

func (s *accountStorage) GetAccount(_ context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := s.store.db.Get(email, &account)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s': %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", email, err)
	}
	return &account, nil
}

func (s *accountStorage) SaveAccount(_ context.Context, account *models.Account) error {
	if err := s.store.db.Upsert(account.Email, account); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	s.logger.Debug().Str("email", account.Email).Msg("Account saved")
	return nil
}

func (s *accountStorage) ListAccounts(_ context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.store.db.Find(&accounts, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

type traderStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTraderStorage creates a new TraderStorage backed by BadgerHold.
func NewTraderStorage(store *Store, logger *common.Logger) *traderStorage {
	return &traderStorage{store: store, logger: logger}
}

func (s *traderStorage) GetTrader(_ context.Context, email string) (*models.Trader, error) {
	var trader models.Trader
	err := s.store.db.Get(email, &trader)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("trader '%s': %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trader '%s': %w", email, err)
	}
	return &trader, nil
}

func (s *traderStorage) SaveTrader(_ context.Context, trader *models.Trader) error {
	if err := s.store.db.Upsert(trader.Email, trader); err != nil {
		return fmt.Errorf("failed to save trader: %w", err)
	}
	s.logger.Debug().Str("email", trader.Email).Msg("Trader saved")
	return nil
}

func (s *traderStorage) DeleteTrader(_ context.Context, email string) error {
	err := s.store.db.Delete(email, models.Trader{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete trader '%s': %w", email, err)
	}
	return nil
}
