package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradeforge/vtrade/internal/services/quote"
)

type watchListAddRequest struct {
	Symbol string `json:"symbol"`
}

type watchListItem struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Price    decimal.Decimal `json:"price"`
	AddedAt  time.Time       `json:"addedAt"`
}

// handleStocks lists catalog entries, filtered by kind (index or equity).
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAuth(w, r); !ok {
		return
	}

	kind := r.URL.Query().Get("kind")
	stocks, err := s.app.QuoteService.ListStocks(r.Context(), kind)
	s.app.Metrics.RecordQuoteLookup(err != nil)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stocks)
}

// handleStockSearch searches the catalog by symbol or name prefix.
func (s *Server) handleStockSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAuth(w, r); !ok {
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = quote.SearchBySymbol
	}
	criteria := r.URL.Query().Get("q")
	if criteria == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	results, err := s.app.QuoteService.Search(r.Context(), field, criteria)
	s.app.Metrics.RecordQuoteLookup(err != nil)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, results)
}

// handleWatchList adds to or lists the caller's watch list. Listed
// entries are marked with the latest available price.
func (s *Server) handleWatchList(w http.ResponseWriter, r *http.Request) {
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req watchListAddRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		entry, err := s.app.WatchListService.Add(r.Context(), email, req.Symbol)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, entry)

	case http.MethodGet:
		entries, err := s.app.WatchListService.List(r.Context(), email, r.URL.Query().Get("currency"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}

		items := make([]watchListItem, 0, len(entries))
		symbols := make([]string, 0, len(entries))
		for _, e := range entries {
			symbols = append(symbols, e.Symbol)
		}

		resolved, err := s.resolveQuotes(r, symbols)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		for _, e := range entries {
			item := watchListItem{
				ID:       e.ID,
				Symbol:   e.Symbol,
				Name:     e.Name,
				Currency: e.Currency,
				AddedAt:  e.AddedAt,
			}
			if q, found := resolved[e.Symbol]; found {
				item.Price = q
			}
			items = append(items, item)
		}
		WriteJSON(w, http.StatusOK, items)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) resolveQuotes(r *http.Request, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) == 0 {
		return prices, nil
	}
	quotes, err := s.app.QuoteService.Resolve(r.Context(), symbols...)
	s.app.Metrics.RecordQuoteLookup(err != nil)
	if err != nil {
		return nil, err
	}
	for sym, q := range quotes {
		prices[sym] = q.Price
	}
	return prices, nil
}

// handleWatchListByID removes a watch list entry.
func (s *Server) handleWatchListByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	email, ok := requireAuth(w, r)
	if !ok {
		return
	}

	id := PathParam(r, "/api/watchlist/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Watch list entry ID is required")
		return
	}

	if err := s.app.WatchListService.Remove(r.Context(), email, id); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "entry removed"})
}
