package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// MarketSource lee mercados del market store.
type MarketSource interface {
	// FetchOverdueMarkets devuelve los mercados binarios Sports/Esports sin resolver
	// cuyo resolution_time es anterior a now. Un error aquí aborta la ejecución.
	FetchOverdueMarkets(ctx context.Context, now time.Time) ([]domain.Market, error)
}
