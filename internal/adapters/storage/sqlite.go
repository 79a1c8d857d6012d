package storage

// sqlite.go: historial de ejecuciones del resolver.
//
//   - `runs`: una fila por ejecución con los contadores del reporte.
//   - `resolutions`: un mercado resuelto por fila, para auditar qué se envió.
//   - `market_attempts`: ejecuciones consecutivas en las que un mercado siguió
//     pendiente. Se borra en cuanto el mercado deja de estar pendiente.
//   - Prune al arrancar: runs y resolutions de más de 30 días.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id            TEXT PRIMARY KEY,
    started_at        INTEGER NOT NULL,
    duration_ms       INTEGER NOT NULL DEFAULT 0,
    dry_run           INTEGER NOT NULL DEFAULT 0,
    overdue_total     INTEGER NOT NULL DEFAULT 0,
    skipped_zero_pool INTEGER NOT NULL DEFAULT 0,
    unparseable       INTEGER NOT NULL DEFAULT 0,
    no_result         INTEGER NOT NULL DEFAULT 0,
    resolved          INTEGER NOT NULL DEFAULT 0,
    failed            INTEGER NOT NULL DEFAULT 0,
    feed_errors       TEXT    NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS resolutions (
    run_id     TEXT    NOT NULL,
    market_id  TEXT    NOT NULL,
    outcome    TEXT    NOT NULL,
    match_kind TEXT    NOT NULL,
    started_at INTEGER NOT NULL,
    PRIMARY KEY (run_id, market_id)
);

CREATE TABLE IF NOT EXISTS market_attempts (
    market_id  TEXT PRIMARY KEY,
    attempts   INTEGER NOT NULL DEFAULT 0,
    first_seen INTEGER NOT NULL,
    last_seen  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_res_market   ON resolutions(market_id);
`

const retentionRuns = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.RunStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun guarda el reporte, sus resoluciones y el contador de intentos de
// los mercados pendientes, todo en una transacción.
func (s *SQLiteStorage) SaveRun(ctx context.Context, r domain.RunReport) error {
	feedErrors, err := json.Marshal(r.FeedErrors)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal feed errors: %w", err)
	}
	started := r.StartedAt.UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, started_at, duration_ms, dry_run, overdue_total, skipped_zero_pool,
		                  unparseable, no_result, resolved, failed, feed_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, started, r.Duration.Milliseconds(), boolToInt(r.DryRun),
		r.OverdueTotal, r.SkippedZeroPool, r.Unparseable, r.NoResultFound, r.Resolved, r.Failed,
		string(feedErrors),
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert run: %w", err)
	}

	for _, res := range r.Resolutions {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO resolutions (run_id, market_id, outcome, match_kind, started_at)
			VALUES (?, ?, ?, ?, ?)`,
			r.RunID, res.MarketID, res.Outcome.String(), res.Match.String(), started,
		); err != nil {
			return fmt.Errorf("storage.SaveRun: insert resolution %s: %w", res.MarketID, err)
		}
	}

	// Las ejecuciones dry-run no cuentan como intentos reales.
	if !r.DryRun {
		for _, id := range r.Pending {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO market_attempts (market_id, attempts, first_seen, last_seen)
				VALUES (?, 1, ?, ?)
				ON CONFLICT(market_id) DO UPDATE SET
					attempts  = attempts + 1,
					last_seen = excluded.last_seen`,
				id, started, started,
			); err != nil {
				return fmt.Errorf("storage.SaveRun: upsert attempt %s: %w", id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM market_attempts WHERE last_seen < ?`, started); err != nil {
			return fmt.Errorf("storage.SaveRun: reset attempts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return nil
}

// RecentRuns devuelve las últimas limit ejecuciones con sus resoluciones.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, limit int) ([]domain.RunReport, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, duration_ms, dry_run, overdue_total, skipped_zero_pool,
		       unparseable, no_result, resolved, failed, feed_errors
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: query: %w", err)
	}
	defer rows.Close()

	var reports []domain.RunReport
	for rows.Next() {
		var (
			r          domain.RunReport
			started    int64
			durationMS int64
			dryRun     int
			feedErrors string
		)
		if err := rows.Scan(&r.RunID, &started, &durationMS, &dryRun, &r.OverdueTotal, &r.SkippedZeroPool,
			&r.Unparseable, &r.NoResultFound, &r.Resolved, &r.Failed, &feedErrors); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan: %w", err)
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.DryRun = dryRun != 0
		if err := json.Unmarshal([]byte(feedErrors), &r.FeedErrors); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: feed errors %s: %w", r.RunID, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range reports {
		res, err := s.resolutionsFor(ctx, reports[i].RunID)
		if err != nil {
			return nil, err
		}
		reports[i].Resolutions = res
	}
	return reports, nil
}

func (s *SQLiteStorage) resolutionsFor(ctx context.Context, runID string) ([]domain.Resolution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_id, outcome, match_kind FROM resolutions WHERE run_id = ? ORDER BY market_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.resolutionsFor: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Resolution
	for rows.Next() {
		var id, outcome, match string
		if err := rows.Scan(&id, &outcome, &match); err != nil {
			return nil, fmt.Errorf("storage.resolutionsFor: scan: %w", err)
		}
		out = append(out, domain.Resolution{
			MarketID: id,
			Outcome:  parseOutcome(outcome),
			Match:    parseMatch(match),
		})
	}
	return out, rows.Err()
}

// StuckMarkets devuelve los mercados con al menos minAttempts intentos seguidos.
func (s *SQLiteStorage) StuckMarkets(ctx context.Context, minAttempts int) ([]domain.StuckMarket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT market_id, attempts, first_seen, last_seen
		FROM market_attempts
		WHERE attempts >= ?
		ORDER BY attempts DESC, market_id`, minAttempts)
	if err != nil {
		return nil, fmt.Errorf("storage.StuckMarkets: query: %w", err)
	}
	defer rows.Close()

	var out []domain.StuckMarket
	for rows.Next() {
		var m domain.StuckMarket
		var first, last int64
		if err := rows.Scan(&m.MarketID, &m.Attempts, &first, &last); err != nil {
			return nil, fmt.Errorf("storage.StuckMarkets: scan: %w", err)
		}
		m.FirstSeen = time.Unix(0, first).UTC()
		m.LastSeen = time.Unix(0, last).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina runs y resolutions fuera de la ventana de retención.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().Add(-retentionRuns).UnixNano()
	_, _ = s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	_, _ = s.db.ExecContext(ctx, `DELETE FROM resolutions WHERE started_at < ?`, cutoff)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseOutcome(s string) domain.Outcome {
	switch s {
	case "yes":
		return domain.OutcomeYes
	case "no":
		return domain.OutcomeNo
	default:
		return domain.OutcomeUnknown
	}
}

func parseMatch(s string) domain.MatchKind {
	switch s {
	case "exact":
		return domain.MatchExact
	case "contains":
		return domain.MatchContains
	default:
		return domain.MatchNone
	}
}
