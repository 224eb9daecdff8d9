package server

import (
	"net/http"
	"time"

	"github.com/tradeforge/vtrade/internal/models"
)

type profileResponse struct {
	Email              string               `json:"email"`
	FullName           string               `json:"fullName"`
	DateOfBirth        string               `json:"dateOfBirth,omitempty"`
	HideDateOfBirth    bool                 `json:"hideDateOfBirth"`
	RiskTolerance      models.RiskTolerance `json:"riskTolerance"`
	AutoTransferToBank bool                 `json:"autoTransferToBank"`
	AllowReset         bool                 `json:"allowReset"`
	Admin              bool                 `json:"admin"`
}

type profileUpdateRequest struct {
	FullName           string `json:"fullName"`
	DateOfBirth        string `json:"dateOfBirth"` // YYYY-MM-DD
	HideDateOfBirth    bool   `json:"hideDateOfBirth"`
	RiskTolerance      string `json:"riskTolerance"`
	AutoTransferToBank bool   `json:"autoTransferToBank"`
	AllowReset         bool   `json:"allowReset"`
}

// handleProfile serves and updates the caller's trader profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getProfile(w, r, email)
	case http.MethodPut:
		s.updateProfile(w, r, email)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, email string) {
	trader, err := s.app.AccountService.GetTrader(r.Context(), email)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	account, err := s.app.AccountService.GetAccount(r.Context(), email)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	resp := profileResponse{
		Email:              trader.Email,
		FullName:           trader.FullName,
		HideDateOfBirth:    trader.HideDateOfBirth,
		RiskTolerance:      trader.RiskTolerance,
		AutoTransferToBank: trader.AutoTransferToBank,
		AllowReset:         trader.AllowReset,
		Admin:              account.Admin,
	}
	if !trader.HideDateOfBirth && !trader.DateOfBirth.IsZero() {
		resp.DateOfBirth = trader.DateOfBirth.Format("2006-01-02")
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, email string) {
	var req profileUpdateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	trader := &models.Trader{
		Email:              email,
		FullName:           req.FullName,
		HideDateOfBirth:    req.HideDateOfBirth,
		RiskTolerance:      models.RiskTolerance(req.RiskTolerance),
		AutoTransferToBank: req.AutoTransferToBank,
		AllowReset:         req.AllowReset,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid dateOfBirth, expected YYYY-MM-DD")
			return
		}
		trader.DateOfBirth = dob
	}

	if err := s.app.AccountService.UpdateTrader(r.Context(), trader); err != nil {
		WriteServiceError(w, err)
		return
	}

	s.getProfile(w, r, email)
}

type deactivateRequest struct {
	Reason string `json:"reason"`
}

// handleDeactivate soft-deletes the caller's account. The account can be
// reactivated through a password reset.
func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req deactivateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.AccountService.Deactivate(r.Context(), email, req.Reason); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "account deactivated"})
}

type resetRequest struct {
	Currency string `json:"currency"`
}

// handleReset wipes the caller's trading state, for one currency or all
// of them. The trader profile must have the allow-reset flag set.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	var req resetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.ResetService.Reset(r.Context(), email, req.Currency); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset complete"})
}
