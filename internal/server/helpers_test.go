package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradeforge/vtrade/internal/models"
)

func TestPathParam(t *testing.T) {
	cases := []struct {
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"/api/banks/abc-123", "/api/banks/", "", "abc-123"},
		{"/api/portfolios/p1/link", "/api/portfolios/", "/link", "p1"},
		{"/api/portfolios/p1", "/api/portfolios/", "/link", "p1"},
		{"/other/path", "/api/banks/", "", ""},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, c.path, nil)
		assert.Equal(t, c.want, PathParam(r, c.prefix, c.suffix), "path %s", c.path)
	}
}

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("balance: %w", models.ErrInsufficientFunds), http.StatusNotAcceptable},
		{models.ErrInsufficientPosition, http.StatusNotAcceptable},
		{models.ErrSymbolNotTradable, http.StatusNotAcceptable},
		{models.ErrQuoteUnavailable, http.StatusBadGateway},
		{models.ErrTradeFailed, http.StatusInternalServerError},
		{fmt.Errorf("name is required"), http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, c.err)
		assert.Equal(t, c.want, rec.Code, "error %v", c.err)
	}
}

func TestRequireMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	assert.True(t, RequireMethod(rec, r, http.MethodPost))

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/x", nil)
	assert.False(t, RequireMethod(rec, r, http.MethodGet, http.MethodPost))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}
