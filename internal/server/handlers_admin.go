package server

import (
	"net/http"
	"strings"

	"github.com/tradeforge/vtrade/internal/models"
)

type adminTargetRequest struct {
	Email string `json:"email"`
}

// handleAdminRequests lets any account request admin access (POST) and
// lets admins review pending requests (GET).
func (s *Server) handleAdminRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		email, ok := requireAuth(w, r)
		if !ok {
			return
		}
		if err := s.app.AccountService.RequestAdminAccess(r.Context(), email); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusAccepted, map[string]string{"status": "admin access requested"})

	case http.MethodGet:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		accounts, err := s.app.AccountService.ListAdminRequests(r.Context())
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, scrubAccounts(accounts))

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAdminGrant approves a pending admin access request.
func (s *Server) handleAdminGrant(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	approver, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req adminTargetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.AccountService.GrantAdminAccess(r.Context(), approver, req.Email); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "admin access granted"})
}

// handleAdminRevoke removes admin access from an account.
func (s *Server) handleAdminRevoke(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	approver, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	var req adminTargetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := s.app.AccountService.RevokeAdminAccess(r.Context(), approver, req.Email); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "admin access revoked"})
}

// handleAdminAccounts lists accounts holding admin access.
func (s *Server) handleAdminAccounts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	accounts, err := s.app.AccountService.ListAdminAccounts(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, scrubAccounts(accounts))
}

func scrubAccounts(accounts []models.Account) []models.Account {
	for i := range accounts {
		accounts[i].PasswordHash = ""
	}
	return accounts
}

// handleIsoList serves active reference rows to any authenticated caller.
func (s *Server) handleIsoList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAuth(w, r); !ok {
		return
	}

	rows, err := s.app.IsoDataService.List(r.Context(), true)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

// handleAdminIso lists all reference rows or creates a new one.
func (s *Server) handleAdminIso(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		rows, err := s.app.IsoDataService.List(r.Context(), false)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, rows)

	case http.MethodPost:
		var data models.IsoData
		if !DecodeJSON(w, r, &data) {
			return
		}
		if err := s.app.IsoDataService.Create(r.Context(), admin, &data); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, data)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAdminIsoByCode dispatches /api/admin/iso/{code} for read, update,
// and the /activate and /deactivate sub-resources.
func (s *Server) handleAdminIsoByCode(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/admin/iso/")
	code, action, _ := strings.Cut(rest, "/")
	if code == "" {
		WriteError(w, http.StatusBadRequest, "Country code is required")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			row, err := s.app.IsoDataService.Get(r.Context(), code)
			if err != nil {
				WriteServiceError(w, err)
				return
			}
			WriteJSON(w, http.StatusOK, row)

		case http.MethodPut:
			var data models.IsoData
			if !DecodeJSON(w, r, &data) {
				return
			}
			data.CountryAlpha2 = code
			if err := s.app.IsoDataService.Update(r.Context(), admin, &data); err != nil {
				WriteServiceError(w, err)
				return
			}
			WriteJSON(w, http.StatusOK, data)

		default:
			RequireMethod(w, r, http.MethodGet, http.MethodPut)
		}

	case "activate":
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}
		if err := s.app.IsoDataService.Activate(r.Context(), admin, code); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "activated"})

	case "deactivate":
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}
		if err := s.app.IsoDataService.Deactivate(r.Context(), admin, code); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})

	default:
		WriteError(w, http.StatusNotFound, "Unknown reference data action: "+action)
	}
}
