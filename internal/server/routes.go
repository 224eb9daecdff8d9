package server

import (
	"net/http"

	"github.com/tradeforge/vtrade/internal/common"
)

// registerRoutes wires all REST API endpoints.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Operational
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// Authentication
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/api/auth/password-reset", s.handlePasswordReset)

	// Trader profile
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/profile/deactivate", s.handleDeactivate)
	mux.HandleFunc("/api/profile/reset", s.handleReset)

	// Funds
	mux.HandleFunc("/api/balances", s.handleBalances)
	mux.HandleFunc("/api/deposits", s.handleDeposit)
	mux.HandleFunc("/api/funds/transfer", s.handleFundsTransfer)
	mux.HandleFunc("/api/funds/transactions", s.handleFundsTransactions)

	// Bank accounts
	mux.HandleFunc("/api/banks", s.handleBanks)
	mux.HandleFunc("/api/banks/transfer", s.handleBankTransfer)
	mux.HandleFunc("/api/banks/transactions", s.handleBankTransactions)
	mux.HandleFunc("/api/banks/", s.handleBankByID)

	// Trading
	mux.HandleFunc("/api/trades/buy", s.handleBuy)
	mux.HandleFunc("/api/trades/sell", s.handleSell)
	mux.HandleFunc("/api/trades/estimate", s.handleEstimate)
	mux.HandleFunc("/api/trades/outstanding", s.handleOutstanding)
	mux.HandleFunc("/api/trades", s.handleTrades)

	// Portfolios
	mux.HandleFunc("/api/portfolios", s.handlePortfolios)
	mux.HandleFunc("/api/portfolios/", s.handlePortfolioByID)

	// Watch lists
	mux.HandleFunc("/api/watchlist", s.handleWatchList)
	mux.HandleFunc("/api/watchlist/", s.handleWatchListByID)

	// Market data
	mux.HandleFunc("/api/stocks", s.handleStocks)
	mux.HandleFunc("/api/stocks/search", s.handleStockSearch)

	// Reference data
	mux.HandleFunc("/api/iso", s.handleIsoList)

	// Administration
	mux.HandleFunc("/api/admin/requests", s.handleAdminRequests)
	mux.HandleFunc("/api/admin/grant", s.handleAdminGrant)
	mux.HandleFunc("/api/admin/revoke", s.handleAdminRevoke)
	mux.HandleFunc("/api/admin/accounts", s.handleAdminAccounts)
	mux.HandleFunc("/api/admin/iso", s.handleAdminIso)
	mux.HandleFunc("/api/admin/iso/", s.handleAdminIsoByCode)
}

// requireAuth returns the caller email or writes a 401.
func requireAuth(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := common.ResolveCallerEmail(r.Context())
	if email == "" {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return email, true
}

// requireAdmin returns the caller email or writes 401/403.
func requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	email, ok := requireAuth(w, r)
	if !ok {
		return "", false
	}
	if !common.IsAdminCaller(r.Context()) {
		WriteError(w, http.StatusForbidden, "Admin access required")
		return "", false
	}
	return email, true
}
