package server

import (
	"net/http"
	"strings"
)

type portfolioCreateRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type portfolioLinkRequest struct {
	TransactionIDs []string `json:"transactionIds"`
}

// handlePortfolios creates or lists portfolios.
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req portfolioCreateRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		portfolio, err := s.app.PortfolioService.Create(r.Context(), email, req.Name, req.Currency)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, portfolio)

	case http.MethodGet:
		portfolios, err := s.app.PortfolioService.List(r.Context(), email, r.URL.Query().Get("currency"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolios)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioByID dispatches /api/portfolios/{id} for detail and the
// /link and /unlink sub-resources.
func (s *Server) handlePortfolioByID(w http.ResponseWriter, r *http.Request) {
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/portfolios/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Portfolio ID is required")
		return
	}

	switch action {
	case "":
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		detail, err := s.app.PortfolioService.Detail(r.Context(), email, id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, detail)

	case "link", "unlink":
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}
		var req portfolioLinkRequest
		if !DecodeJSON(w, r, &req) {
			return
		}

		var err error
		var portfolio interface{}
		if action == "link" {
			portfolio, err = s.app.PortfolioService.Link(r.Context(), email, id, req.TransactionIDs)
		} else {
			portfolio, err = s.app.PortfolioService.Unlink(r.Context(), email, id, req.TransactionIDs)
		}
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	default:
		WriteError(w, http.StatusNotFound, "Unknown portfolio action: "+action)
	}
}
