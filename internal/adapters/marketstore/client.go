package marketstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/adapters/httpx"
	"github.com/alejandrodnm/resolverbot/internal/domain"
)

const (
	marketsPath = "/markets"
	pageSize    = 500
	maxPages    = 200
)

// Store es el cliente del market store. Implementa ports.MarketSource y ports.Resolver.
type Store struct {
	http     *httpx.Client
	maxPages int
}

// NewStore crea un Store sobre el cliente HTTP dado.
func NewStore(c *httpx.Client) *Store {
	return &Store{http: c, maxPages: maxPages}
}

// WithMaxPages fija el tope de páginas por listado.
func (s *Store) WithMaxPages(n int) *Store {
	s.maxPages = max(n, 1)
	return s
}

// FetchOverdueMarkets pagina GET /markets?resolved=false y filtra en cliente.
func (s *Store) FetchOverdueMarkets(ctx context.Context, now time.Time) ([]domain.Market, error) {
	var rows []marketRow

	for page := 0; ; page++ {
		q := url.Values{}
		q.Set("resolved", "false")
		q.Set("limit", fmt.Sprint(pageSize))
		q.Set("offset", fmt.Sprint(page*pageSize))

		var batch []marketRow
		if err := s.http.Get(ctx, marketsPath+"?"+q.Encode(), &batch); err != nil {
			return nil, fmt.Errorf("marketstore.FetchOverdueMarkets: page %d: %w", page, err)
		}
		rows = append(rows, batch...)

		if len(batch) < pageSize {
			break
		}
		if page+1 >= s.maxPages {
			slog.Warn("market listing truncated at page limit, remaining markets wait for the next run",
				"pages", s.maxPages,
				"rows", len(rows),
			)
			break
		}
	}

	markets := filterOverdue(rows, now)
	slog.Debug("markets fetched", "rows", len(rows), "overdue", len(markets))
	return markets, nil
}

// Resolve envía POST /markets/{id}/resolve. Un 409 se devuelve envuelto en
// domain.ErrAlreadyResolved.
func (s *Store) Resolve(ctx context.Context, marketID string, outcome domain.Outcome) error {
	if !outcome.Dispatchable() {
		return fmt.Errorf("marketstore.Resolve: %s: outcome %s is not dispatchable", marketID, outcome)
	}

	path := marketsPath + "/" + url.PathEscape(marketID) + "/resolve"
	err := s.http.Post(ctx, path, resolveRequest{Outcome: outcome.String()}, nil)
	if err == nil {
		return nil
	}

	var se *httpx.StatusError
	if errors.As(err, &se) && se.Code == http.StatusConflict {
		return fmt.Errorf("marketstore.Resolve: %s: %w", marketID, domain.ErrAlreadyResolved)
	}
	return fmt.Errorf("marketstore.Resolve: %s: %w", marketID, err)
}
