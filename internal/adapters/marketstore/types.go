package marketstore

import "encoding/json"

// DTOs raw del market store. Solo se usan dentro de este paquete.

// marketRow es una fila de GET /markets. Los pools llegan como número o string
// según el backend, por eso json.Number.
type marketRow struct {
	ID             string      `json:"id"`
	OracleType     string      `json:"oracle_type"`
	MarketType     string      `json:"market_type"`
	ResolutionTime int64       `json:"resolution_time"`
	Resolved       bool        `json:"resolved"`
	YesPool        json.Number `json:"yes_pool"`
	NoPool         json.Number `json:"no_pool"`
}

// resolveRequest es el body de POST /markets/{id}/resolve.
type resolveRequest struct {
	Outcome string `json:"outcome"`
}
