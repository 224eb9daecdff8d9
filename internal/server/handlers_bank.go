package server

import (
	"net/http"
)

type bankAddRequest struct {
	Currency      string `json:"currency"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

type bankTransferRequest struct {
	Currency      string `json:"currency"`
	BankAccountID string `json:"bankAccountId"`
	Amount        string `json:"amount"`
}

// handleBanks adds or lists linked bank accounts.
func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req bankAddRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		bankAccount, err := s.app.BankService.Add(r.Context(), email, req.Currency, req.BankName, req.AccountNumber)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, bankAccount)

	case http.MethodGet:
		accounts, err := s.app.BankService.List(r.Context(), email, r.URL.Query().Get("currency"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, accounts)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleBankByID deactivates a linked bank account.
func (s *Server) handleBankByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id := PathParam(r, "/api/banks/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Bank account ID is required")
		return
	}

	if err := s.app.BankService.Deactivate(r.Context(), email, id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "bank account deactivated"})
}

// handleBankTransfer moves non-trading funds out to a linked bank account.
func (s *Server) handleBankTransfer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req bankTransferRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount)
	if !ok {
		return
	}

	if err := s.app.LedgerService.TransferToBank(r.Context(), email, req.Currency, req.BankAccountID, amount); err != nil {
		WriteServiceError(w, err)
		return
	}

	balance, err := s.app.LedgerService.Balance(r.Context(), email, req.Currency)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balance)
}

// handleBankTransactions lists outbound bank transfer records.
func (s *Server) handleBankTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	txns, err := s.app.BankService.Transactions(r.Context(), email, r.URL.Query().Get("currency"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txns)
}
