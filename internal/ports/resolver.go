package ports

import (
	"context"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// Resolver envía el comando resolve al servicio de resolución.
type Resolver interface {
	// Resolve resuelve un mercado con el outcome dado. Un error nil es éxito;
	// cualquier rechazo (incluido "ya resuelto") se devuelve como error.
	Resolve(ctx context.Context, marketID string, outcome domain.Outcome) error
}
