package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/resolverbot/config"
	"github.com/alejandrodnm/resolverbot/internal/adapters/httpx"
	"github.com/alejandrodnm/resolverbot/internal/adapters/lock"
	"github.com/alejandrodnm/resolverbot/internal/adapters/marketstore"
	"github.com/alejandrodnm/resolverbot/internal/adapters/notify"
	"github.com/alejandrodnm/resolverbot/internal/adapters/storage"
	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/alejandrodnm/resolverbot/internal/ports"
	"github.com/alejandrodnm/resolverbot/internal/resolver"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one resolution cycle and exit")
	dryRun := flag.Bool("dry-run", false, "match and report but never send resolve commands")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print per-market table (default: compact 1-line)")
	history := flag.Int("history", 0, "print the last N stored runs and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := notify.NewConsole(*table)

	if *history > 0 {
		if err := printHistory(ctx, store, notifier, *history); err != nil {
			slog.Error("history failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("resolverbot starting",
		"config", *configPath,
		"interval", cfg.Interval(),
		"dry_run", *dryRun,
		"once", *once,
	)

	markets := marketstore.NewStore(httpx.New(httpx.Options{
		BaseURL:    cfg.API.MarketBase,
		Timeout:    cfg.HTTPTimeout(),
		RatePerSec: cfg.API.RatePerSec,
		Burst:      5,
		Headers:    bearerHeaders(cfg.API.APIKey, true),
	}))

	feeds := buildFeeds(cfg)
	if len(feeds) == 0 {
		slog.Warn("no result feeds configured: every market will be counted as no_result_found")
	}

	var res ports.Resolver = markets
	if *dryRun {
		res = resolver.DryRunResolver{}
	}

	engCfg := resolver.DefaultConfig()
	engCfg.Interval = cfg.Interval()
	engCfg.Once = *once
	engCfg.DispatchWorkers = cfg.Resolver.DispatchWorkers
	engCfg.FeedTimeout = cfg.FeedTimeout()
	engCfg.DrawPolicy = domain.ParseDrawPolicy(cfg.Resolver.DrawPolicy)
	engCfg.StuckAfterRuns = cfg.Resolver.StuckAfterRuns
	engCfg.LockTTL = cfg.LockTTL()
	engCfg.DryRun = *dryRun

	eng := resolver.New(engCfg, markets, feeds, res, notifier).WithStorage(store)

	if cfg.Lock.RedisAddr != "" {
		rl, err := lock.NewRedisLock(ctx, lock.Options{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		if err != nil {
			slog.Error("failed to connect run lock", "err", err, "addr", cfg.Lock.RedisAddr)
			os.Exit(1)
		}
		defer rl.Close()
		eng.WithLock(rl)
	}

	if err := eng.Run(ctx); err != nil {
		slog.Error("resolver exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("resolverbot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
