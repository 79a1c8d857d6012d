package esports

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/resolverbot/internal/adapters/httpx"
	"github.com/alejandrodnm/resolverbot/internal/domain"
)

const (
	livePath     = "/matches/running"
	finishedPath = "/matches/past"
	perPage      = 100

	// Los feeds por juego son más finos que el global, y ambos más fiables
	// que el feed en vivo para partidos ya terminados.
	PriorityLive         = 10
	PriorityFinished     = 20
	PriorityGameFinished = 30
)

// Feed es un endpoint de partidos de esports. Implementa ports.ResultFeed.
type Feed struct {
	http     *httpx.Client
	name     string
	path     string
	priority int
	pages    int
	sorted   bool
}

// NewLiveFeed crea el feed de partidos en curso.
func NewLiveFeed(c *httpx.Client) *Feed {
	return &Feed{http: c, name: "esports_live", path: livePath, priority: PriorityLive, pages: 1}
}

// NewFinishedFeed crea el feed global de partidos terminados.
func NewFinishedFeed(c *httpx.Client, pages int) *Feed {
	return &Feed{
		http: c, name: "esports_finished", path: finishedPath,
		priority: PriorityFinished, pages: max(pages, 1), sorted: true,
	}
}

// NewGameFinishedFeed crea el feed de partidos terminados de un juego ("lol", "csgo", ...).
func NewGameFinishedFeed(c *httpx.Client, game string, pages int) *Feed {
	return &Feed{
		http:     c,
		name:     "esports_finished_" + game,
		path:     "/" + url.PathEscape(game) + finishedPath,
		priority: PriorityGameFinished,
		pages:    max(pages, 1),
		sorted:   true,
	}
}

func (f *Feed) Name() string { return f.name }
func (f *Feed) Oracle() domain.OracleType { return domain.OracleEsports }
func (f *Feed) Priority() int { return f.priority }

// FetchResults pide hasta f.pages páginas y para en la primera incompleta.
func (f *Feed) FetchResults(ctx context.Context) (map[string]domain.EventResult, error) {
	var all []match
	for page := 1; page <= f.pages; page++ {
		q := url.Values{}
		q.Set("per_page", fmt.Sprint(perPage))
		q.Set("page", fmt.Sprint(page))
		if f.sorted {
			q.Set("sort", "-end_at")
		}

		var batch []match
		if err := f.http.Get(ctx, f.path+"?"+q.Encode(), &batch); err != nil {
			return nil, fmt.Errorf("esports.FetchResults %s: page %d: %w", f.name, page, err)
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			break
		}
	}

	results := mapMatches(all, f.name)
	slog.Debug("esports feed fetched", "feed", f.name, "matches", len(all), "results", len(results))
	return results, nil
}
