package sports

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/adapters/httpx"
	"github.com/alejandrodnm/resolverbot/internal/domain"
)

const (
	dateLayout    = "20060102"
	eventLimit    = 1000
	PriorityScore = 10
)

// ScoreboardFeed es el scoreboard de una liga ("basketball/nba", "football/nfl").
// Implementa ports.ResultFeed.
type ScoreboardFeed struct {
	http     *httpx.Client
	league   string
	lookback int
	now      func() time.Time
}

// NewScoreboardFeed crea el feed para la liga dada con una ventana de lookbackDays días.
func NewScoreboardFeed(c *httpx.Client, league string, lookbackDays int) *ScoreboardFeed {
	return &ScoreboardFeed{
		http:     c,
		league:   strings.Trim(league, "/"),
		lookback: max(lookbackDays, 1),
		now:      time.Now,
	}
}

// WithClock fija el reloj usado para calcular la ventana (tests).
func (f *ScoreboardFeed) WithClock(now func() time.Time) *ScoreboardFeed {
	f.now = now
	return f
}

func (f *ScoreboardFeed) Name() string {
	return "sports_" + strings.ReplaceAll(f.league, "/", "_")
}

func (f *ScoreboardFeed) Oracle() domain.OracleType { return domain.OracleSports }

func (f *ScoreboardFeed) Priority() int { return PriorityScore }

// FetchResults pide el scoreboard de los últimos lookback días, hoy incluido.
func (f *ScoreboardFeed) FetchResults(ctx context.Context) (map[string]domain.EventResult, error) {
	to := f.now().UTC()
	from := to.AddDate(0, 0, -f.lookback)

	q := url.Values{}
	q.Set("dates", from.Format(dateLayout)+"-"+to.Format(dateLayout))
	q.Set("limit", fmt.Sprint(eventLimit))

	var resp scoreboardResponse
	if err := f.http.Get(ctx, "/"+f.league+"/scoreboard?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("sports.FetchResults %s: %w", f.league, err)
	}

	results := mapEvents(resp.Events, f.Name())
	slog.Debug("sports feed fetched", "feed", f.Name(), "events", len(resp.Events), "results", len(results))
	return results, nil
}
