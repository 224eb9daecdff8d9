package server

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/vtrade/internal/models"
)

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	var health map[string]interface{}
	rec := doJSON(t, s, http.MethodGet, "/api/health", "", nil, &health)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", health["status"])

	var version map[string]string
	rec = doJSON(t, s, http.MethodGet, "/api/version", "", nil, &version)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, version["version"])
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	token := registerAndLogin(t, s, "trader@example.com")
	assert.NotEmpty(t, token)

	// Duplicate registration rejected
	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", registerRequest{
		Email:    "trader@example.com",
		Password: "hunter22",
		FullName: "Test Trader",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp authResponse
	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "hunter22",
	}, &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.Token)

	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin_RejectsNonAdmin(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "trader@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/auth/admin/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "hunter22",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	grantAdmin(t, s, "trader@example.com")

	var resp authResponse
	rec = doJSON(t, s, http.MethodPost, "/api/auth/admin/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "hunter22",
	}, &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Admin)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/balances", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/balances", "not-a-valid-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestDepositTransferAndBalance(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	var balance models.AccountBalance
	rec := doJSON(t, s, http.MethodPost, "/api/deposits", token,
		depositRequest{Currency: "usd", Amount: "1000"}, &balance)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "USD", balance.Currency)
	assert.True(t, balance.NonTradingAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, balance.TradingAmount.IsZero())

	rec = doJSON(t, s, http.MethodPost, "/api/funds/transfer", token,
		fundsTransferRequest{Currency: "USD", From: "NON_TRADING", Amount: "400"}, &balance)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, balance.TradingAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, balance.NonTradingAmount.Equal(decimal.NewFromInt(600)))

	var balances []models.AccountBalance
	rec = doJSON(t, s, http.MethodGet, "/api/balances", token, nil, &balances)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, balances, 1)

	var txns []models.AccountTransaction
	rec = doJSON(t, s, http.MethodGet, "/api/funds/transactions?currency=USD", token, nil, &txns)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, txns, 2)
}

func TestBuySellFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")
	depositAndFundTrading(t, s, token, 10000)

	var txn models.TradingTransaction
	rec := doJSON(t, s, http.MethodPost, "/api/trades/buy", token,
		tradeRequest{Symbol: "AAPL", Quantity: 2}, &txn)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, models.DeedBuy, txn.Deed)
	// 300 gross + 1.536 fees
	assert.True(t, txn.Cost.Equal(decimal.RequireFromString("301.536")), "cost %s", txn.Cost)

	var positions []models.Position
	rec = doJSON(t, s, http.MethodGet, "/api/trades/outstanding?currency=USD", token, nil, &positions)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, positions, 1)
	assert.Equal(t, int64(2), positions[0].Quantity)

	rec = doJSON(t, s, http.MethodPost, "/api/trades/sell", token,
		tradeRequest{Symbol: "AAPL", Quantity: 1}, &txn)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, models.DeedSell, txn.Deed)

	// Selling more than held is rejected
	rec = doJSON(t, s, http.MethodPost, "/api/trades/sell", token,
		tradeRequest{Symbol: "AAPL", Quantity: 5}, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	// Index symbols are not tradable
	rec = doJSON(t, s, http.MethodPost, "/api/trades/buy", token,
		tradeRequest{Symbol: "^HSI", Quantity: 1}, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	var history []models.TradingTransaction
	rec = doJSON(t, s, http.MethodGet, "/api/trades?currency=USD", token, nil, &history)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, history, 2)
}

func TestEstimateEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")
	depositAndFundTrading(t, s, token, 1000)

	var estimate models.TradeEstimate
	rec := doJSON(t, s, http.MethodPost, "/api/trades/estimate", token,
		estimateRequest{Symbol: "AAPL", Quantity: 2, Deed: "buy"}, &estimate)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, estimate.Gross.Equal(decimal.NewFromInt(300)))
	assert.True(t, estimate.Total.Equal(decimal.RequireFromString("301.536")), "total %s", estimate.Total)

	rec = doJSON(t, s, http.MethodPost, "/api/trades/estimate", token,
		estimateRequest{Symbol: "AAPL", Quantity: 2, Deed: "hold"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBankAccountLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	var bank models.BankAccount
	rec := doJSON(t, s, http.MethodPost, "/api/banks", token,
		bankAddRequest{Currency: "USD", BankName: "First National", AccountNumber: "12345678"}, &bank)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, bank.InUse)

	// Deposit then transfer out to the bank
	rec = doJSON(t, s, http.MethodPost, "/api/deposits", token,
		depositRequest{Currency: "USD", Amount: "500"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var balance models.AccountBalance
	rec = doJSON(t, s, http.MethodPost, "/api/banks/transfer", token,
		bankTransferRequest{Currency: "USD", BankAccountID: bank.ID, Amount: "200"}, &balance)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, balance.NonTradingAmount.Equal(decimal.NewFromInt(300)))

	var bankTxns []models.BankAccountTransaction
	rec = doJSON(t, s, http.MethodGet, "/api/banks/transactions?currency=USD", token, nil, &bankTxns)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, bankTxns, 1)

	rec = doJSON(t, s, http.MethodDelete, "/api/banks/"+bank.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Transfers to a deactivated bank account are rejected
	rec = doJSON(t, s, http.MethodPost, "/api/banks/transfer", token,
		bankTransferRequest{Currency: "USD", BankAccountID: bank.ID, Amount: "50"}, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestPortfolioEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")
	depositAndFundTrading(t, s, token, 10000)

	var txn models.TradingTransaction
	rec := doJSON(t, s, http.MethodPost, "/api/trades/buy", token,
		tradeRequest{Symbol: "AAPL", Quantity: 4}, &txn)
	require.Equal(t, http.StatusCreated, rec.Code)

	var portfolio models.Portfolio
	rec = doJSON(t, s, http.MethodPost, "/api/portfolios", token,
		portfolioCreateRequest{Name: "Tech", Currency: "USD"}, &portfolio)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodPost, "/api/portfolios/"+portfolio.ID+"/link", token,
		portfolioLinkRequest{TransactionIDs: []string{txn.ID}}, &portfolio)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, portfolio.InvestedAmount.IsZero())

	var detail models.PortfolioDetail
	rec = doJSON(t, s, http.MethodGet, "/api/portfolios/"+portfolio.ID, token, nil, &detail)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, detail.Transactions, 1)

	// Another account cannot read it
	other := registerAndLogin(t, s, "other@example.com")
	rec = doJSON(t, s, http.MethodGet, "/api/portfolios/"+portfolio.ID, other, nil, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestWatchListEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	var entry models.WatchListEntry
	rec := doJSON(t, s, http.MethodPost, "/api/watchlist", token,
		watchListAddRequest{Symbol: "AAPL"}, &entry)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "AAPL", entry.Symbol)

	var items []watchListItem
	rec = doJSON(t, s, http.MethodGet, "/api/watchlist?currency=USD", token, nil, &items)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(150)))

	rec = doJSON(t, s, http.MethodDelete, "/api/watchlist/"+entry.ID, token, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/watchlist", token, nil, &items)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, items)
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	var profile profileResponse
	rec := doJSON(t, s, http.MethodGet, "/api/profile", token, nil, &profile)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Test Trader", profile.FullName)
	assert.Equal(t, models.RiskMedium, profile.RiskTolerance)

	rec = doJSON(t, s, http.MethodPut, "/api/profile", token, profileUpdateRequest{
		FullName:      "Test Trader",
		DateOfBirth:   "1990-06-15",
		RiskTolerance: "HIGH",
		AllowReset:    true,
	}, &profile)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.RiskHigh, profile.RiskTolerance)
	assert.Equal(t, "1990-06-15", profile.DateOfBirth)
	assert.True(t, profile.AllowReset)

	// Hidden date of birth is not echoed back
	profile = profileResponse{}
	rec = doJSON(t, s, http.MethodPut, "/api/profile", token, profileUpdateRequest{
		FullName:        "Test Trader",
		DateOfBirth:     "1990-06-15",
		HideDateOfBirth: true,
		RiskTolerance:   "HIGH",
		AllowReset:      true,
	}, &profile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, profile.DateOfBirth)
}

func TestResetEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")
	depositAndFundTrading(t, s, token, 1000)

	// Reset requires the allow-reset flag
	rec := doJSON(t, s, http.MethodPost, "/api/profile/reset", token, resetRequest{}, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	var profile profileResponse
	rec = doJSON(t, s, http.MethodPut, "/api/profile", token, profileUpdateRequest{
		FullName:      "Test Trader",
		RiskTolerance: "MEDIUM",
		AllowReset:    true,
	}, &profile)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/profile/reset", token, resetRequest{}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var balances []models.AccountBalance
	rec = doJSON(t, s, http.MethodGet, "/api/balances", token, nil, &balances)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, balances)
}

func TestDeactivateAndPasswordResetReactivates(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/profile/deactivate", token,
		deactivateRequest{Reason: "taking a break"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Deactivated accounts cannot authenticate
	rec = doJSON(t, s, http.MethodGet, "/api/balances", token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "hunter22",
	}, nil)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/auth/password-reset", "", passwordResetRequest{
		Email:       "trader@example.com",
		NewPassword: "hunter23",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", loginRequest{
		Email:    "trader@example.com",
		Password: "hunter23",
	}, &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStocksAndSearch(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	var quotes []models.Quote
	rec := doJSON(t, s, http.MethodGet, "/api/stocks?kind=index", token, nil, &quotes)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, quotes, 1)
	assert.Equal(t, "^HSI", quotes[0].Symbol)

	rec = doJSON(t, s, http.MethodGet, "/api/stocks/search?field=name&q=apple", token, nil, &quotes)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, quotes, 1)
	assert.Equal(t, "AAPL", quotes[0].Symbol)

	rec = doJSON(t, s, http.MethodGet, "/api/stocks/search", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminWorkflow(t *testing.T) {
	s := newTestServer(t)
	userToken := registerAndLogin(t, s, "trader@example.com")
	adminToken := registerAndLogin(t, s, "admin@example.com")
	grantAdmin(t, s, "admin@example.com")

	// Non-admin cannot list requests
	rec := doJSON(t, s, http.MethodGet, "/api/admin/requests", userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/admin/requests", userToken, nil, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var pending []models.Account
	rec = doJSON(t, s, http.MethodGet, "/api/admin/requests", adminToken, nil, &pending)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pending, 1)
	assert.Equal(t, "trader@example.com", pending[0].Email)
	assert.Empty(t, pending[0].PasswordHash)

	rec = doJSON(t, s, http.MethodPost, "/api/admin/grant", adminToken,
		adminTargetRequest{Email: "trader@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var admins []models.Account
	rec = doJSON(t, s, http.MethodGet, "/api/admin/accounts", adminToken, nil, &admins)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, admins, 2)

	rec = doJSON(t, s, http.MethodPost, "/api/admin/revoke", adminToken,
		adminTargetRequest{Email: "trader@example.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminIsoEndpoints(t *testing.T) {
	s := newTestServer(t)
	adminToken := registerAndLogin(t, s, "admin@example.com")
	grantAdmin(t, s, "admin@example.com")

	row := models.IsoData{
		CountryAlpha2:      "jp",
		CountryName:        "Japan",
		CurrencyCode:       "jpy",
		CurrencyName:       "Japanese Yen",
		CurrencyMinorUnits: 0,
		Active:             true,
	}
	var created models.IsoData
	rec := doJSON(t, s, http.MethodPost, "/api/admin/iso", adminToken, row, &created)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "JP", created.CountryAlpha2)
	assert.Equal(t, "JPY", created.CurrencyCode)

	rec = doJSON(t, s, http.MethodPost, "/api/admin/iso/JP/deactivate", adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Inactive rows are hidden from the public listing
	userToken := registerAndLogin(t, s, "trader@example.com")
	var rows []models.IsoData
	rec = doJSON(t, s, http.MethodGet, "/api/iso", userToken, nil, &rows)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rows)

	rec = doJSON(t, s, http.MethodPost, "/api/admin/iso/JP/activate", adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/iso", userToken, nil, &rows)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rows, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "trader@example.com")

	rec := doJSON(t, s, http.MethodPost, "/api/deposits", token,
		depositRequest{Currency: "USD", Amount: "500"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/metrics", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vtrade_account_balance")
}
