package server

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/models"
)

type depositRequest struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type fundsTransferRequest struct {
	Currency string `json:"currency"`
	From     string `json:"from"` // TRADING or NON_TRADING
	Amount   string `json:"amount"`
}

// snapshotBalance publishes the latest sub-account levels for the
// balance's currency.
func (s *Server) snapshotBalance(balance *models.AccountBalance) {
	trading, _ := balance.TradingAmount.Float64()
	nonTrading, _ := balance.NonTradingAmount.Float64()
	s.app.Metrics.SetBalance(balance.Currency, "trading", trading)
	s.app.Metrics.SetBalance(balance.Currency, "non_trading", nonTrading)
}

func parseAmount(w http.ResponseWriter, raw string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid amount: "+raw)
		return decimal.Zero, false
	}
	return amount, true
}

// handleBalances lists the caller's balances, optionally filtered to one
// currency.
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	if currency := r.URL.Query().Get("currency"); currency != "" {
		balance, err := s.app.LedgerService.Balance(r.Context(), email, currency)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, balance)
		return
	}

	balances, err := s.app.LedgerService.Balances(r.Context(), email)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balances)
}

// handleDeposit credits funds to the caller's non-trading balance,
// creating the balance row for a new currency on first use.
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req depositRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	balance, err := s.app.LedgerService.Deposit(r.Context(), email, req.Currency, amount)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	s.snapshotBalance(balance)
	WriteJSON(w, http.StatusOK, balance)
}

// handleFundsTransfer moves funds between the trading and non-trading
// sub-accounts of one balance.
func (s *Server) handleFundsTransfer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req fundsTransferRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	from := models.BalanceSubAccount(strings.ToUpper(strings.TrimSpace(req.From)))
	if from != models.SubAccountTrading && from != models.SubAccountNonTrading {
		WriteError(w, http.StatusBadRequest, "from must be TRADING or NON_TRADING")
		return
	}

	balance, err := s.app.LedgerService.TransferFunds(r.Context(), email, req.Currency, from, amount)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	s.snapshotBalance(balance)
	WriteJSON(w, http.StatusOK, balance)
}

// handleFundsTransactions lists the fund movement audit log.
func (s *Server) handleFundsTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	txns, err := s.app.LedgerService.Transactions(r.Context(), email, r.URL.Query().Get("currency"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txns)
}
