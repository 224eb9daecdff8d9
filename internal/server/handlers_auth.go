package server

import (
	"net/http"

	"github.com/tradeforge/vtrade/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string          `json:"token"`
	Email   string          `json:"email"`
	Admin   bool            `json:"admin"`
	Account *models.Account `json:"account,omitempty"`
}

// handleRegister creates a new account and returns a signed token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := s.app.AccountService.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := signJWT(account.Email, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token after registration")
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	account.PasswordHash = ""
	WriteJSON(w, http.StatusCreated, authResponse{
		Token:   token,
		Email:   account.Email,
		Admin:   account.Admin,
		Account: account,
	})
}

// handleLogin authenticates an account and returns a signed token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, false)
}

// handleAdminLogin authenticates an admin account. Non-admin accounts
// are rejected as invalid credentials.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, true)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, requireAdmin bool) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	account, err := s.app.AccountService.Login(r.Context(), req.Email, req.Password, requireAdmin)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := signJWT(account.Email, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign token after login")
		WriteError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, authResponse{
		Token: token,
		Email: account.Email,
		Admin: account.Admin,
	})
}

type passwordResetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// handlePasswordReset replaces the password for an account and
// reactivates it if it was deactivated.
func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req passwordResetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.AccountService.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
