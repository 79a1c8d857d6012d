package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/alejandrodnm/resolverbot/internal/ports"
)

// feedOutcome es lo que devolvió un feed en esta ejecución.
type feedOutcome struct {
	feed    ports.ResultFeed
	results map[string]domain.EventResult
	err     error
}

// fetchAll pide la lista de mercados y todos los feeds en paralelo.
// Solo el error de la lista de mercados se devuelve; un feed que falla aporta
// un mapa vacío y queda registrado en el reporte.
func (e *Engine) fetchAll(ctx context.Context, now time.Time, report *domain.RunReport) ([]domain.Market, domain.ResultMap, error) {
	g, gctx := errgroup.WithContext(ctx)

	var markets []domain.Market
	g.Go(func() error {
		m, err := e.markets.FetchOverdueMarkets(gctx, now)
		if err != nil {
			return fmt.Errorf("resolver.fetchAll: markets: %w", err)
		}
		markets = m
		return nil
	})

	outcomes := make([]feedOutcome, len(e.feeds))
	for i, feed := range e.feeds {
		g.Go(func() error {
			outcomes[i] = e.fetchFeed(gctx, feed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return markets, mergeFeeds(outcomes, report), nil
}

// fetchFeed llama a un feed con su propio timeout y recupera cualquier panic
// para que un feed roto no tumbe la ejecución.
func (e *Engine) fetchFeed(ctx context.Context, feed ports.ResultFeed) (out feedOutcome) {
	out.feed = feed
	if e.cfg.FeedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.FeedTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			out.results, out.err = nil, fmt.Errorf("feed panic: %v", r)
		}
	}()

	out.results, out.err = feed.FetchResults(ctx)
	return out
}

// mergeFeeds fusiona por prioridad ascendente: los feeds más específicos
// sobreescriben a los más genéricos para el mismo evento.
func mergeFeeds(outcomes []feedOutcome, report *domain.RunReport) domain.ResultMap {
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].feed.Priority() < outcomes[j].feed.Priority()
	})

	merged := make(domain.ResultMap)
	for _, o := range outcomes {
		name := o.feed.Name()
		if o.err != nil {
			slog.Warn("result feed failed, continuing without it", "feed", name, "err", o.err)
			report.FeedErrors[name] = o.err.Error()
			report.FeedEvents[name] = 0
			continue
		}
		merged.Merge(o.feed.Oracle(), o.results)
		report.FeedEvents[name] = len(o.results)
	}
	return merged
}
