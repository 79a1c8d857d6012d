package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/alejandrodnm/resolverbot/internal/ports"
)

const lockKey = "resolver:run"

// ErrRunSkipped se devuelve cuando otra ejecución tiene el lock.
var ErrRunSkipped = errors.New("run skipped: another run holds the lock")

// Config contiene la configuración del engine.
type Config struct {
	Interval        time.Duration
	Once            bool          // una sola ejecución y salir
	DispatchWorkers int           // resolves en paralelo
	FeedTimeout     time.Duration // timeout por feed (0 = solo el del cliente HTTP)
	DrawPolicy      domain.DrawPolicy
	StuckAfterRuns  int // avisar de mercados pendientes en N ejecuciones seguidas (0 = off)
	LockTTL         time.Duration
	DryRun          bool
}

// DefaultConfig devuelve valores sensatos para producción.
func DefaultConfig() Config {
	return Config{
		Interval:        5 * time.Minute,
		DispatchWorkers: 4,
		FeedTimeout:     20 * time.Second,
		DrawPolicy:      domain.DrawResolveNo,
		StuckAfterRuns:  12,
		LockTTL:         10 * time.Minute,
	}
}

// Engine es el orquestador de cada ejecución del resolver.
// No guarda estado entre ejecuciones: cada RunOnce reconstruye el mapa de
// resultados desde cero.
type Engine struct {
	cfg      Config
	markets  ports.MarketSource
	feeds    []ports.ResultFeed
	resolver ports.Resolver
	notifier ports.Notifier
	storage  ports.RunStorage
	lock     ports.RunLock
	now      func() time.Time
}

// New crea un Engine con las dependencias obligatorias. Storage y lock son
// opcionales y se añaden con WithStorage / WithLock.
func New(
	cfg Config,
	markets ports.MarketSource,
	feeds []ports.ResultFeed,
	resolver ports.Resolver,
	notifier ports.Notifier,
) *Engine {
	return &Engine{
		cfg:      cfg,
		markets:  markets,
		feeds:    feeds,
		resolver: resolver,
		notifier: notifier,
		now:      time.Now,
	}
}

// WithStorage activa el historial de ejecuciones.
func (e *Engine) WithStorage(s ports.RunStorage) *Engine {
	e.storage = s
	return e
}

// WithLock activa el lock entre ejecuciones concurrentes.
func (e *Engine) WithLock(l ports.RunLock) *Engine {
	e.lock = l
	return e
}

// WithClock fija el reloj (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Run ejecuta el resolver cada cfg.Interval hasta que el contexto se cancele.
// Con cfg.Once hace una sola ejecución y devuelve su error.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("resolver starting",
		"interval", e.cfg.Interval,
		"once", e.cfg.Once,
		"feeds", len(e.feeds),
		"dispatch_workers", e.cfg.DispatchWorkers,
		"draw_policy", e.cfg.DrawPolicy,
		"dry_run", e.cfg.DryRun,
	)

	if err := e.runCycle(ctx); err != nil {
		slog.Error("resolver run failed", "err", err)
		if e.cfg.Once {
			return err
		}
	}
	if e.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("resolver stopped")
			return nil
		case <-ticker.C:
			if err := e.runCycle(ctx); err != nil {
				slog.Error("resolver run failed", "err", err)
			}
		}
	}
}

// runCycle ejecuta una vez, notifica y persiste el reporte.
func (e *Engine) runCycle(ctx context.Context) error {
	report, err := e.RunOnce(ctx)
	if errors.Is(err, ErrRunSkipped) {
		slog.Info("resolver run skipped, lock held by another run")
		return nil
	}
	if err != nil {
		return err
	}

	if err := e.notifier.NotifyRun(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if e.storage != nil {
		if err := e.storage.SaveRun(ctx, report); err != nil {
			slog.Warn("storage error", "err", err)
		}
		e.warnStuck(ctx)
	}

	slog.Info("resolver run complete",
		"run_id", report.RunID,
		"overdue", report.OverdueTotal,
		"skipped_zero_pool", report.SkippedZeroPool,
		"unparseable", report.Unparseable,
		"no_result", report.NoResultFound,
		"resolved", report.Resolved,
		"failed", report.Failed,
		"feed_errors", len(report.FeedErrors),
		"duration", report.Duration.Round(time.Millisecond),
	)
	return nil
}

// RunOnce hace una ejecución completa: fetch → match → dispatch → reporte.
// Solo devuelve error si no se pudo obtener la lista de mercados o si el lock
// está tomado (ErrRunSkipped).
func (e *Engine) RunOnce(ctx context.Context) (domain.RunReport, error) {
	if e.lock != nil {
		unlock, err := e.lock.Acquire(ctx, lockKey, e.cfg.LockTTL)
		if errors.Is(err, domain.ErrLockHeld) {
			return domain.RunReport{}, ErrRunSkipped
		}
		if err != nil {
			return domain.RunReport{}, fmt.Errorf("resolver.RunOnce: lock: %w", err)
		}
		defer unlock()
	}

	now := e.now()
	report := domain.RunReport{
		RunID:      uuid.NewString(),
		StartedAt:  now,
		DryRun:     e.cfg.DryRun,
		FeedErrors: make(map[string]string),
		FeedEvents: make(map[string]int),
	}

	markets, results, err := e.fetchAll(ctx, now, &report)
	if err != nil {
		return domain.RunReport{}, fmt.Errorf("resolver.RunOnce: %w", err)
	}

	pending := e.decideAll(markets, results, &report)
	errs := e.dispatchAll(ctx, pending)
	tally(pending, errs, &report)

	report.Duration = e.now().Sub(now)
	if !report.Balanced() {
		slog.Error("run report counters do not add up",
			"run_id", report.RunID,
			"processed", report.Processed(),
			"unparseable", report.Unparseable,
			"no_result", report.NoResultFound,
			"resolved", report.Resolved,
			"failed", report.Failed,
		)
	}
	return report, nil
}

// decideAll cuenta y clasifica cada mercado overdue y devuelve los que hay que resolver.
func (e *Engine) decideAll(markets []domain.Market, results domain.ResultMap, report *domain.RunReport) []pendingResolution {
	seen := make(map[string]bool, len(markets))
	pending := make([]pendingResolution, 0, len(markets))

	for _, m := range markets {
		if seen[m.ID] {
			slog.Debug("duplicate market in listing, ignoring", "market_id", m.ID)
			continue
		}
		seen[m.ID] = true
		report.OverdueTotal++

		if !m.HasStake() {
			report.SkippedZeroPool++
			continue
		}

		id, err := domain.ParseMarket(m)
		if err != nil {
			slog.Warn("skipping unparseable market", "market_id", m.ID, "err", err)
			report.Unparseable++
			report.Pending = append(report.Pending, m.ID)
			continue
		}

		result := results.Lookup(id.Oracle, id.EventID)
		d := domain.Decide(id, result, e.cfg.DrawPolicy)
		if d.Draw {
			report.Draws = append(report.Draws, m.ID)
		}

		if !d.Outcome.Dispatchable() {
			slog.Debug("no outcome yet", "market_id", m.ID, "reason", d.Reason)
			report.NoResultFound++
			report.Pending = append(report.Pending, m.ID)
			continue
		}

		if d.Ambiguous() {
			slog.Warn("ambiguous match",
				"market_id", m.ID,
				"participant", id.Participant,
				"winner", result.Winner,
				"event", fmt.Sprintf("%s vs %s", result.ParticipantA, result.ParticipantB),
				"outcome", d.Outcome,
				"source", result.Source,
			)
		}
		pending = append(pending, pendingResolution{marketID: m.ID, decision: d})
	}
	return pending
}

// tally vuelca el resultado de cada resolve en el reporte.
func tally(pending []pendingResolution, errs []error, report *domain.RunReport) {
	for i, p := range pending {
		if err := errs[i]; err != nil {
			report.Failed++
			report.Failures = append(report.Failures, domain.Failure{
				MarketID: p.marketID,
				Outcome:  p.decision.Outcome,
				Reason:   err.Error(),
			})
			report.Pending = append(report.Pending, p.marketID)
			continue
		}
		report.Resolved++
		report.Resolutions = append(report.Resolutions, domain.Resolution{
			MarketID: p.marketID,
			Outcome:  p.decision.Outcome,
			Match:    p.decision.Match,
		})
		if p.decision.Ambiguous() {
			report.Ambiguous = append(report.Ambiguous, p.marketID)
		}
	}
}

// warnStuck avisa de los mercados que llevan demasiadas ejecuciones sin resolverse.
func (e *Engine) warnStuck(ctx context.Context) {
	if e.cfg.StuckAfterRuns <= 0 {
		return
	}
	stuck, err := e.storage.StuckMarkets(ctx, e.cfg.StuckAfterRuns)
	if err != nil {
		slog.Warn("stuck markets query failed", "err", err)
		return
	}
	for _, s := range stuck {
		slog.Warn("market stuck unresolved",
			"market_id", s.MarketID,
			"attempts", s.Attempts,
			"first_seen", s.FirstSeen.Format(time.RFC3339),
		)
	}
}
