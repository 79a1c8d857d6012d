package ports

import (
	"context"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// ResultFeed obtiene resultados de eventos de un proveedor externo.
type ResultFeed interface {
	// Name identifica el feed en logs y en el reporte.
	Name() string

	// Oracle es el tipo de oracle cuyos mercados sirve este feed.
	Oracle() domain.OracleType

	// Priority ordena la fusión: los feeds de mayor prioridad sobreescriben
	// a los de menor prioridad para el mismo event_id.
	Priority() int

	// FetchResults devuelve los resultados indexados por event_id.
	FetchResults(ctx context.Context) (map[string]domain.EventResult, error)
}
