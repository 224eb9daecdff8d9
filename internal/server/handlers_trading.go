package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tradeforge/vtrade/internal/models"
)

type tradeRequest struct {
	Symbol        string `json:"symbol"`
	Quantity      int64  `json:"quantity"`
	AutoTransfer  bool   `json:"autoTransfer,omitempty"`
	BankAccountID string `json:"bankAccountId,omitempty"`
}

type estimateRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Deed     string `json:"deed"` // BUY or SELL
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrInsufficientPosition):
		return "insufficient_position"
	case errors.Is(err, models.ErrSymbolNotTradable):
		return "symbol_not_tradable"
	case errors.Is(err, models.ErrQuoteUnavailable):
		return "quote_unavailable"
	case errors.Is(err, models.ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, models.ErrTradeFailed):
		return "settlement_failed"
	default:
		return "invalid_request"
	}
}

// handleBuy executes a buy at the live quote.
func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	txn, err := s.app.TradeService.Buy(r.Context(), email, req.Symbol, req.Quantity)
	if err != nil {
		s.app.Metrics.RecordTradeRejection(string(models.DeedBuy), rejectionReason(err))
		WriteServiceError(w, err)
		return
	}

	s.app.Metrics.RecordTrade(string(models.DeedBuy))
	WriteJSON(w, http.StatusCreated, txn)
}

// handleSell executes a sell at the live quote. With autoTransfer set the
// net proceeds go straight to the named bank account instead of the
// trading balance.
func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req tradeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	txn, err := s.app.TradeService.Sell(r.Context(), email, req.Symbol, req.Quantity, req.AutoTransfer, req.BankAccountID)
	if err != nil {
		s.app.Metrics.RecordTradeRejection(string(models.DeedSell), rejectionReason(err))
		WriteServiceError(w, err)
		return
	}

	s.app.Metrics.RecordTrade(string(models.DeedSell))
	WriteJSON(w, http.StatusCreated, txn)
}

// handleEstimate previews the cost of a prospective trade without
// executing it.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req estimateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	deed := models.Deed(strings.ToUpper(strings.TrimSpace(req.Deed)))
	if deed != models.DeedBuy && deed != models.DeedSell {
		WriteError(w, http.StatusBadRequest, "deed must be BUY or SELL")
		return
	}

	estimate, err := s.app.TradeService.Estimate(r.Context(), email, req.Symbol, req.Quantity, deed)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, estimate)
}

// handleOutstanding lists open positions marked at current prices.
func (s *Server) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	positions, err := s.app.TradeService.Outstanding(r.Context(), email, r.URL.Query().Get("currency"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, positions)
}

// handleTrades lists executed trading transactions.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	txns, err := s.app.TradeService.Transactions(r.Context(), email, r.URL.Query().Get("currency"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txns)
}
