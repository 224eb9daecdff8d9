// Package account manages registration, authentication, trader
// profiles, and the admin access workflow.
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

const (
	minPasswordLength = 6
	bcryptCost        = 10
)

// Service implements account lifecycle and authentication. Password
// hashes never leave the storage layer through this service's returns;
// callers receive the account with the hash intact only for internal
// wiring, and handlers are expected to shape their own responses.
type Service struct {
	accounts    interfaces.AccountStorage
	traders     interfaces.TraderStorage
	defaultRisk models.RiskTolerance
	logger      *common.Logger
}

// NewService creates a new account service. defaultRisk seeds the
// trader profile created at registration.
func NewService(accounts interfaces.AccountStorage, traders interfaces.TraderStorage, defaultRisk models.RiskTolerance, logger *common.Logger) *Service {
	if !models.ValidRiskTolerance(defaultRisk) {
		defaultRisk = models.RiskMedium
	}
	return &Service{accounts: accounts, traders: traders, defaultRisk: defaultRisk, logger: logger}
}

// Register creates an account and its trader profile together.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*models.Account, error) {
	email = models.NormalizeEmail(email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.accounts.GetAccount(ctx, email); err == nil {
		return nil, fmt.Errorf("account '%s' already registered", email)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	trader := &models.Trader{
		Email:         email,
		FullName:      fullName,
		RiskTolerance: s.defaultRisk,
		UpdatedAt:     now,
	}
	if err := s.traders.SaveTrader(ctx, trader); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("Account registered")
	return account, nil
}

// Login verifies the password and, when requireAdmin is set, the admin
// flag. Unknown accounts and wrong passwords are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, email, password string, requireAdmin bool) (*models.Account, error) {
	email = models.NormalizeEmail(email)

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := verifyPassword(account.PasswordHash, password); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, fmt.Errorf("account '%s': %w", email, models.ErrAccountInactive)
	}
	if requireAdmin && !account.Admin {
		return nil, models.ErrInvalidCredentials
	}
	return account, nil
}

// ResetPassword replaces the password and reactivates a deactivated
// account.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = models.NormalizeEmail(email)
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash
	if !account.Active {
		account.Active = true
		account.DeactivatedAt = nil
		account.DeactivationReason = ""
	}
	account.UpdatedAt = time.Now()

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Msg("Password reset")
	return nil
}

// Deactivate disables login and trading for the account.
func (s *Service) Deactivate(ctx context.Context, email, reason string) error {
	email = models.NormalizeEmail(email)

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return err
	}
	now := time.Now()
	account.Active = false
	account.DeactivatedAt = &now
	account.DeactivationReason = reason
	account.UpdatedAt = now

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Str("reason", reason).Msg("Account deactivated")
	return nil
}

func (s *Service) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	return s.accounts.GetAccount(ctx, models.NormalizeEmail(email))
}

func (s *Service) GetTrader(ctx context.Context, email string) (*models.Trader, error) {
	return s.traders.GetTrader(ctx, models.NormalizeEmail(email))
}

func (s *Service) UpdateTrader(ctx context.Context, trader *models.Trader) error {
	trader.Email = models.NormalizeEmail(trader.Email)
	if !models.ValidRiskTolerance(trader.RiskTolerance) {
		return fmt.Errorf("unknown risk tolerance %q", trader.RiskTolerance)
	}
	if _, err := s.traders.GetTrader(ctx, trader.Email); err != nil {
		return err
	}
	trader.UpdatedAt = time.Now()
	return s.traders.SaveTrader(ctx, trader)
}

// RequestAdminAccess records a pending request for elevated access.
func (s *Service) RequestAdminAccess(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return err
	}
	if account.Admin {
		return fmt.Errorf("account '%s' already has admin access", email)
	}
	now := time.Now()
	account.AdminRequestedAt = &now
	account.UpdatedAt = now
	return s.accounts.SaveAccount(ctx, account)
}

// GrantAdminAccess elevates an account and records the approver.
func (s *Service) GrantAdminAccess(ctx context.Context, approver, email string) error {
	email = models.NormalizeEmail(email)

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return err
	}
	now := time.Now()
	account.Admin = true
	account.AdminGrantedAt = &now
	account.AdminGrantedBy = models.NormalizeEmail(approver)
	account.AdminRequestedAt = nil
	account.UpdatedAt = now

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Str("approver", approver).Msg("Admin access granted")
	return nil
}

// RevokeAdminAccess removes elevated access.
func (s *Service) RevokeAdminAccess(ctx context.Context, approver, email string) error {
	email = models.NormalizeEmail(email)

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return err
	}
	account.Admin = false
	account.AdminGrantedAt = nil
	account.AdminGrantedBy = ""
	account.UpdatedAt = time.Now()

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Str("approver", approver).Msg("Admin access revoked")
	return nil
}

func (s *Service) ListAdminRequests(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var pending []models.Account
	for _, account := range accounts {
		if account.AdminRequestedAt != nil && !account.Admin {
			pending = append(pending, account)
		}
	}
	return pending, nil
}

func (s *Service) ListAdminAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	var admins []models.Account
	for _, account := range accounts {
		if account.Admin {
			admins = append(admins, account)
		}
	}
	return admins, nil
}

// hashPassword truncates to bcrypt's 72 byte limit before hashing so
// overlong passwords do not error out.
func hashPassword(password string) (string, error) {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), raw)
}

// Ensure Service implements AccountService
var _ interfaces.AccountService = (*Service)(nil)
