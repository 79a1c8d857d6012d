package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// pendingResolution es un mercado con outcome decidido, listo para el resolve.
type pendingResolution struct {
	marketID string
	decision domain.Decision
}

// dispatchAll envía un resolve por mercado con concurrencia acotada.
// Cada goroutine escribe solo su índice en errs, así que no hace falta lock.
// No hay retries: un rechazo se reintenta en la siguiente ejecución.
func (e *Engine) dispatchAll(ctx context.Context, pending []pendingResolution) []error {
	errs := make([]error, len(pending))

	var g errgroup.Group
	g.SetLimit(max(e.cfg.DispatchWorkers, 1))

	for i, p := range pending {
		g.Go(func() error {
			errs[i] = e.resolveOne(ctx, p)
			if errs[i] != nil {
				slog.Warn("resolve rejected",
					"market_id", p.marketID,
					"outcome", p.decision.Outcome,
					"err", errs[i],
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errs
}

// resolveOne aísla un panic del resolver al mercado que lo provocó.
func (e *Engine) resolveOne(ctx context.Context, p pendingResolution) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panic: %v", r)
		}
	}()
	return e.resolver.Resolve(ctx, p.marketID, p.decision.Outcome)
}
