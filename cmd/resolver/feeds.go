package main

import (
	"strings"

	"github.com/alejandrodnm/resolverbot/config"
	"github.com/alejandrodnm/resolverbot/internal/adapters/esports"
	"github.com/alejandrodnm/resolverbot/internal/adapters/httpx"
	"github.com/alejandrodnm/resolverbot/internal/adapters/sports"
	"github.com/alejandrodnm/resolverbot/internal/ports"
)

// buildFeeds crea los feeds de resultados a partir de la config.
// Esports solo se activa con token; sports con al menos una liga.
func buildFeeds(cfg *config.Config) []ports.ResultFeed {
	var feeds []ports.ResultFeed

	if cfg.Esports.Token != "" {
		ec := httpx.New(httpx.Options{
			BaseURL:    cfg.Esports.BaseURL,
			Timeout:    cfg.HTTPTimeout(),
			RatePerSec: cfg.Esports.RatePerSec,
			Burst:      2,
			Headers:    bearerHeaders(cfg.Esports.Token, false),
		})
		feeds = append(feeds,
			esports.NewLiveFeed(ec),
			esports.NewFinishedFeed(ec, cfg.Esports.Pages),
		)
		for _, g := range cfg.Esports.Games {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			feeds = append(feeds, esports.NewGameFinishedFeed(ec, g, cfg.Esports.Pages))
		}
	}

	if len(cfg.Sports.Leagues) > 0 {
		sc := httpx.New(httpx.Options{
			BaseURL:    cfg.Sports.BaseURL,
			Timeout:    cfg.HTTPTimeout(),
			RatePerSec: cfg.Sports.RatePerSec,
			Burst:      2,
		})
		for _, l := range cfg.Sports.Leagues {
			l = strings.Trim(strings.TrimSpace(l), "/")
			if l == "" {
				continue
			}
			feeds = append(feeds, sports.NewScoreboardFeed(sc, l, cfg.Sports.LookbackDays))
		}
	}

	return feeds
}

// bearerHeaders construye las cabeceras de auth. Con apikey=true añade
// también la cabecera "apikey" que espera el market store.
func bearerHeaders(token string, apikey bool) map[string]string {
	if token == "" {
		return nil
	}
	h := map[string]string{"Authorization": "Bearer " + token}
	if apikey {
		h["apikey"] = token
	}
	return h
}
