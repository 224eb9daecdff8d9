package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// Service executes buys and sells. Validation and quote resolution are
// side-effect free; settlement and persistence run under a per
// (email, currency) lock, and a store failure after settlement is
// compensated so the operation completes fully or not at all.
type Service struct {
	accounts   interfaces.AccountStorage
	trades     interfaces.TradingStorage
	balances   interfaces.BalanceStorage
	ledger     interfaces.LedgerService
	quotes     interfaces.QuoteService
	portfolios interfaces.PortfolioService
	locks      *common.KeyedLocks
	logger     *common.Logger
}

// NewService creates a new trade engine. The portfolio service is
// optional; when present, portfolios linking a traded symbol are
// revalued after each execution.
func NewService(
	accounts interfaces.AccountStorage,
	trades interfaces.TradingStorage,
	balances interfaces.BalanceStorage,
	ledger interfaces.LedgerService,
	quotes interfaces.QuoteService,
	portfolios interfaces.PortfolioService,
	logger *common.Logger,
) *Service {
	return &Service{
		accounts:   accounts,
		trades:     trades,
		balances:   balances,
		ledger:     ledger,
		quotes:     quotes,
		portfolios: portfolios,
		locks:      common.NewKeyedLocks(),
		logger:     logger,
	}
}

// Buy purchases quantity shares of symbol at the current quote. The
// trading sub-account is debited the gross amount plus fees.
func (s *Service) Buy(ctx context.Context, email, symbol string, quantity int64) (*models.TradingTransaction, error) {
	quote, err := s.tradableQuote(ctx, email, symbol, quantity)
	if err != nil {
		return nil, err
	}

	gross := quote.Price.Mul(decimal.NewFromInt(quantity))
	fees := CalculateFees(gross)
	total := gross.Add(fees)

	unlock := s.locks.Acquire(models.BalanceID(email, quote.Currency))
	defer unlock()

	if err := s.ledger.Debit(ctx, email, quote.Currency, models.SubAccountTrading, total); err != nil {
		return nil, err
	}

	txn := s.newTransaction(email, quote, models.DeedBuy, quantity, total)
	if err := s.trades.SaveTransaction(ctx, txn); err != nil {
		s.compensateCredit(ctx, email, quote.Currency, models.SubAccountTrading, total)
		return nil, fmt.Errorf("persisting buy of '%s': %w", symbol, models.ErrTradeFailed)
	}

	description := "Bought " + describeExecution(quantity, quote, total)
	if _, err := s.appendAudit(ctx, email, quote.Currency, description); err != nil {
		s.compensateDelete(ctx, txn.ID)
		s.compensateCredit(ctx, email, quote.Currency, models.SubAccountTrading, total)
		return nil, fmt.Errorf("recording buy of '%s': %w", symbol, models.ErrTradeFailed)
	}

	s.logger.Info().
		Str("email", email).
		Str("symbol", quote.Symbol).
		Int64("quantity", quantity).
		Str("total", total.String()).
		Msg("Buy executed")
	s.revaluePortfolios(ctx, email, quote.Symbol)
	return txn, nil
}

// Sell disposes quantity shares of symbol at the current quote. Net
// proceeds (gross minus fees) are credited to the trading sub-account,
// or sent straight to a linked bank account when autoTransfer is set.
func (s *Service) Sell(ctx context.Context, email, symbol string, quantity int64, autoTransfer bool, bankAccountID string) (*models.TradingTransaction, error) {
	quote, err := s.tradableQuote(ctx, email, symbol, quantity)
	if err != nil {
		return nil, err
	}
	if autoTransfer && bankAccountID == "" {
		return nil, fmt.Errorf("bank account is required for auto transfer")
	}

	gross := quote.Price.Mul(decimal.NewFromInt(quantity))
	fees := CalculateFees(gross)
	net := gross.Sub(fees)

	unlock := s.locks.Acquire(models.BalanceID(email, quote.Currency))
	defer unlock()

	outstanding, err := s.OutstandingQuantity(ctx, email, quote.Symbol)
	if err != nil {
		return nil, err
	}
	if quantity > outstanding {
		return nil, fmt.Errorf("selling %d of %d outstanding '%s' shares: %w",
			quantity, outstanding, quote.Symbol, models.ErrInsufficientPosition)
	}

	txn := s.newTransaction(email, quote, models.DeedSell, quantity, net)
	if err := s.trades.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("persisting sell of '%s': %w", symbol, models.ErrTradeFailed)
	}

	description := "Sold " + describeExecution(quantity, quote, net)
	auditID, err := s.appendAudit(ctx, email, quote.Currency, description)
	if err != nil {
		s.compensateDelete(ctx, txn.ID)
		return nil, fmt.Errorf("recording sell of '%s': %w", symbol, models.ErrTradeFailed)
	}

	// Settlement runs last; a failure here removes the records written
	// above so nothing survives a failed sell.
	if autoTransfer {
		err = s.ledger.TransferToBank(ctx, email, quote.Currency, bankAccountID, net)
	} else {
		err = s.ledger.Credit(ctx, email, quote.Currency, models.SubAccountTrading, net)
	}
	if err != nil {
		s.compensateAuditDelete(ctx, auditID)
		s.compensateDelete(ctx, txn.ID)
		return nil, err
	}

	s.logger.Info().
		Str("email", email).
		Str("symbol", quote.Symbol).
		Int64("quantity", quantity).
		Str("net", net.String()).
		Bool("auto_transfer", autoTransfer).
		Msg("Sell executed")
	s.revaluePortfolios(ctx, email, quote.Symbol)
	return txn, nil
}

// Estimate previews the cost of a prospective trade without touching
// any balance or position.
func (s *Service) Estimate(ctx context.Context, email, symbol string, quantity int64, deed models.Deed) (*models.TradeEstimate, error) {
	quote, err := s.tradableQuote(ctx, email, symbol, quantity)
	if err != nil {
		return nil, err
	}

	gross := quote.Price.Mul(decimal.NewFromInt(quantity))
	fees := CalculateFees(gross)

	var total decimal.Decimal
	switch deed {
	case models.DeedBuy:
		total = gross.Add(fees)
	case models.DeedSell:
		total = gross.Sub(fees)
	default:
		return nil, fmt.Errorf("unknown trading deed %q", deed)
	}

	return &models.TradeEstimate{
		Symbol:   quote.Symbol,
		Deed:     deed,
		Quantity: quantity,
		Currency: quote.Currency,
		Price:    quote.Price,
		Gross:    gross,
		Fees:     fees,
		Total:    total,
	}, nil
}

func (s *Service) Transactions(ctx context.Context, email, currency string) ([]models.TradingTransaction, error) {
	return s.trades.ListTransactions(ctx, email, strings.ToUpper(currency))
}

// tradableQuote runs the side-effect-free half of an execution: input
// validation, account status, quote resolution, and the equities-only
// rule.
func (s *Service) tradableQuote(ctx context.Context, email, symbol string, quantity int64) (models.Quote, error) {
	if strings.TrimSpace(symbol) == "" {
		return models.Quote{}, fmt.Errorf("trading symbol is required")
	}
	if quantity <= 0 {
		return models.Quote{}, fmt.Errorf("quantity %d must be positive", quantity)
	}

	account, err := s.accounts.GetAccount(ctx, email)
	if err != nil {
		return models.Quote{}, err
	}
	if !account.Active {
		return models.Quote{}, fmt.Errorf("account '%s': %w", email, models.ErrAccountInactive)
	}

	resolved, err := s.quotes.Resolve(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	quote := resolved[symbol]
	if quote.Index {
		return models.Quote{}, fmt.Errorf("'%s' is an index, not an equity: %w",
			quote.Symbol, models.ErrSymbolNotTradable)
	}
	return quote, nil
}

func (s *Service) newTransaction(email string, quote models.Quote, deed models.Deed, quantity int64, cost decimal.Decimal) *models.TradingTransaction {
	return &models.TradingTransaction{
		ID:         uuid.New().String(),
		Email:      email,
		Symbol:     quote.Symbol,
		SymbolName: quote.Name,
		Deed:       deed,
		Quantity:   quantity,
		Currency:   quote.Currency,
		Price:      quote.Price,
		Cost:       cost,
		ExecutedAt: time.Now(),
	}
}

func (s *Service) appendAudit(ctx context.Context, email, currency, description string) (string, error) {
	txn := &models.AccountTransaction{
		ID:          uuid.New().String(),
		Email:       email,
		Currency:    currency,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.balances.AppendAccountTransaction(ctx, txn); err != nil {
		return "", err
	}
	return txn.ID, nil
}

// revaluePortfolios refreshes the aggregates of every portfolio holding
// transactions in the traded symbol. Failures here never fail the
// trade.
func (s *Service) revaluePortfolios(ctx context.Context, email, symbol string) {
	if s.portfolios == nil {
		return
	}
	txns, err := s.trades.ListTransactionsBySymbol(ctx, email, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Portfolio revalue lookup failed")
		return
	}

	seen := make(map[string]bool)
	for _, txn := range txns {
		if txn.PortfolioID == "" || seen[txn.PortfolioID] {
			continue
		}
		seen[txn.PortfolioID] = true
		if _, err := s.portfolios.Revalue(ctx, txn.PortfolioID); err != nil {
			s.logger.Warn().Err(err).Str("portfolio", txn.PortfolioID).Msg("Portfolio revalue failed")
		}
	}
}

func (s *Service) compensateCredit(ctx context.Context, email, currency string, sub models.BalanceSubAccount, amount decimal.Decimal) {
	if err := s.ledger.Credit(ctx, email, currency, sub, amount); err != nil {
		s.logger.Error().Err(err).
			Str("email", email).
			Str("currency", currency).
			Str("amount", amount.String()).
			Msg("Settlement compensation failed")
	}
}

func (s *Service) compensateAuditDelete(ctx context.Context, auditID string) {
	if err := s.balances.DeleteAccountTransaction(ctx, auditID); err != nil {
		s.logger.Error().Err(err).Str("transaction", auditID).Msg("Audit rollback failed")
	}
}

func (s *Service) compensateDelete(ctx context.Context, txnID string) {
	if err := s.trades.DeleteTransaction(ctx, txnID); err != nil {
		s.logger.Error().Err(err).Str("transaction", txnID).Msg("Transaction rollback failed")
	}
}

func describeExecution(quantity int64, quote models.Quote, total decimal.Decimal) string {
	return fmt.Sprintf("%d shares of %s at %s %s, total cost %s %s",
		quantity, quote.Symbol, quote.Currency, quote.Price,
		quote.Currency, models.FormatAmount(total))
}

// Ensure Service implements TradeService
var _ interfaces.TradeService = (*Service)(nil)
