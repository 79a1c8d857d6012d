package marketstore

import (
	"encoding/json"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

// mapMarket convierte una fila al dominio. Devuelve false para mercados que el
// resolver no procesa: oracle desconocido o mercado no binario.
func mapMarket(r marketRow) (domain.Market, bool) {
	oracle, ok := domain.ParseOracleType(r.OracleType)
	if !ok {
		return domain.Market{}, false
	}
	if r.MarketType != "" && r.MarketType != "binary" {
		return domain.Market{}, false
	}

	m := domain.Market{
		ID:             r.ID,
		Oracle:         oracle,
		ResolutionTime: time.Unix(r.ResolutionTime, 0).UTC(),
		Resolved:       r.Resolved,
	}
	m.YesPool = poolValue(r.YesPool)
	m.NoPool = poolValue(r.NoPool)
	return m, true
}

// poolValue devuelve 0 para pools vacíos, inválidos o negativos.
func poolValue(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// filterOverdue se queda con los mercados sin resolver cuyo deadline ya pasó.
func filterOverdue(rows []marketRow, now time.Time) []domain.Market {
	markets := make([]domain.Market, 0, len(rows))
	for _, r := range rows {
		m, ok := mapMarket(r)
		if !ok || !m.IsOverdue(now) {
			continue
		}
		markets = append(markets, m)
	}
	return markets
}
