package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tradeforge/vtrade/internal/app"
	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/models"
	"github.com/tradeforge/vtrade/internal/storage"
)

type fakeMarketClient struct {
	stocks []models.Stock
	quotes map[string]models.Quote
}

func (f *fakeMarketClient) ListStocks(context.Context) ([]models.Stock, error) {
	return f.stocks, nil
}

func (f *fakeMarketClient) GetQuotes(_ context.Context, symbols []string) ([]models.Quote, error) {
	var out []models.Quote
	for _, symbol := range symbols {
		if q, ok := f.quotes[symbol]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()
	config.Auth.JWTSecret = "test-secret"

	logger := common.NewSilentLogger()
	manager, err := storage.NewManager(logger, config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	market := &fakeMarketClient{
		stocks: []models.Stock{
			{Symbol: "AAPL", Description: "Apple Inc.", Type: "equity", Currency: "USD"},
			{Symbol: "^HSI", Description: "Hang Seng Index", Type: "index", Currency: "HKD"},
		},
		quotes: map[string]models.Quote{
			"AAPL": {Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD", Price: decimal.NewFromInt(150)},
			"^HSI": {Symbol: "^HSI", Name: "Hang Seng Index", Currency: "HKD", Price: decimal.NewFromInt(17651), Index: true},
		},
	}

	a := app.NewAppWithDependencies(config, logger, manager, market)
	return NewServer(a)
}

// doJSON performs a request against the server handler and decodes the
// response body into out when non-nil.
func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

// registerAndLogin creates an account and returns its bearer token.
func registerAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()

	var resp authResponse
	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", registerRequest{
		Email:    email,
		Password: "hunter22",
		FullName: "Test Trader",
	}, &resp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// grantAdmin flips the admin flag directly in storage.
func grantAdmin(t *testing.T, s *Server, email string) {
	t.Helper()
	ctx := context.Background()
	account, err := s.app.Storage.Accounts().GetAccount(ctx, email)
	require.NoError(t, err)
	account.Admin = true
	require.NoError(t, s.app.Storage.Accounts().SaveAccount(ctx, account))
}

func depositAndFundTrading(t *testing.T, s *Server, token string, amount int64) {
	t.Helper()
	raw := fmt.Sprintf("%d", amount)
	rec := doJSON(t, s, http.MethodPost, "/api/deposits", token,
		depositRequest{Currency: "USD", Amount: raw}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, s, http.MethodPost, "/api/funds/transfer", token,
		fundsTransferRequest{Currency: "USD", From: "NON_TRADING", Amount: raw}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
