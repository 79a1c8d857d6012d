package domain

import (
	"fmt"
	"time"
)

// OracleType es la categoría de feed externo del que depende un mercado.
// Es un conjunto cerrado: solo Sports y Esports son procesados por el resolver.
type OracleType int

const (
	OracleSports OracleType = iota + 1
	OracleEsports
)

// OracleTypes lista todas las variantes soportadas, en orden estable.
var OracleTypes = []OracleType{OracleSports, OracleEsports}

// Prefix devuelve el prefijo que usa el market_id para este oracle.
func (o OracleType) Prefix() string {
	switch o {
	case OracleSports:
		return "sports"
	case OracleEsports:
		return "esports"
	default:
		return ""
	}
}

func (o OracleType) String() string {
	if p := o.Prefix(); p != "" {
		return p
	}
	return fmt.Sprintf("oracle(%d)", int(o))
}

// Valid devuelve true si o es una de las variantes conocidas.
func (o OracleType) Valid() bool {
	return o.Prefix() != ""
}

// ParseOracleType convierte el prefijo textual ("sports", "esports") en OracleType.
// Cualquier otro valor devuelve false: esos mercados son invisibles para el resolver.
func ParseOracleType(s string) (OracleType, bool) {
	for _, o := range OracleTypes {
		if o.Prefix() == s {
			return o, true
		}
	}
	return 0, false
}

// Market es la vista de solo lectura de un mercado binario que consume el resolver.
type Market struct {
	ID             string // {oracle}_{event_id}_{participant_slug}
	Oracle         OracleType
	ResolutionTime time.Time
	Resolved       bool
	YesPool        float64
	NoPool         float64
}

// IsOverdue devuelve true si el mercado sigue abierto y su deadline ya pasó.
func (m Market) IsOverdue(now time.Time) bool {
	return !m.Resolved && now.After(m.ResolutionTime)
}

// HasStake devuelve false si nadie apostó en ningún lado: no hay nada que pagar.
func (m Market) HasStake() bool {
	return m.YesPool > 0 || m.NoPool > 0
}
