package ports

import (
	"context"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// Notifier presenta el resumen de cada ejecución.
type Notifier interface {
	NotifyRun(ctx context.Context, report domain.RunReport) error
}
