package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/resolverbot/internal/adapters/notify"
	"github.com/alejandrodnm/resolverbot/internal/ports"
)

// printHistory muestra las últimas ejecuciones y los mercados atascados.
func printHistory(ctx context.Context, store ports.RunStorage, console *notify.Console, limit int) error {
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("printHistory: %w", err)
	}
	console.PrintHistory(runs)

	stuck, err := store.StuckMarkets(ctx, 2)
	if err != nil {
		return fmt.Errorf("printHistory: stuck: %w", err)
	}
	for _, s := range stuck {
		slog.Warn("market pending across runs",
			"market_id", s.MarketID,
			"attempts", s.Attempts,
			"first_seen", s.FirstSeen.Format("2006-01-02 15:04"),
		)
	}
	return nil
}
