package ports

import (
	"context"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// RunStorage persiste el historial de ejecuciones.
type RunStorage interface {
	// SaveRun guarda el reporte y actualiza el contador de intentos de los
	// mercados que siguen pendientes.
	SaveRun(ctx context.Context, report domain.RunReport) error

	// RecentRuns devuelve las últimas limit ejecuciones, más recientes primero.
	RecentRuns(ctx context.Context, limit int) ([]domain.RunReport, error)

	// StuckMarkets devuelve los mercados pendientes en al menos minAttempts
	// ejecuciones consecutivas.
	StuckMarkets(ctx context.Context, minAttempts int) ([]domain.StuckMarket, error)

	Close() error
}
