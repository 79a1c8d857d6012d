package resolver

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// DryRunResolver implementa ports.Resolver sin tocar el market store.
type DryRunResolver struct{}

// Resolve solo registra el comando que se habría enviado.
func (DryRunResolver) Resolve(_ context.Context, marketID string, outcome domain.Outcome) error {
	slog.Info("dry run: would resolve", "market_id", marketID, "outcome", outcome)
	return nil
}
