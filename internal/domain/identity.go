package domain

import "strings"

// IDDelimiter separa los segmentos de un market_id.
const IDDelimiter = "_"

// MarketIdentity es el market_id decodificado.
type MarketIdentity struct {
	Oracle      OracleType
	EventID     string
	Participant string // slug tal cual aparece en el id, puede contener "_"
}

// ParseMarketID decodifica "{oracle}_{event_id}_{participant_slug}".
// Todo lo que sigue al segundo delimitador forma el slug del participante,
// así "sports_evt123_new_york_jets" → evento "evt123", participante "new_york_jets".
func ParseMarketID(id string) (MarketIdentity, error) {
	parts := strings.SplitN(id, IDDelimiter, 3)
	if len(parts) < 3 {
		return MarketIdentity{}, &ParseError{MarketID: id, Reason: "expected at least 3 segments"}
	}

	oracle, ok := ParseOracleType(parts[0])
	if !ok {
		return MarketIdentity{}, &ParseError{MarketID: id, Reason: "unknown oracle prefix " + parts[0]}
	}
	if parts[1] == "" {
		return MarketIdentity{}, &ParseError{MarketID: id, Reason: "empty event id"}
	}
	if Normalize(parts[2]) == "" {
		return MarketIdentity{}, &ParseError{MarketID: id, Reason: "empty participant"}
	}

	return MarketIdentity{
		Oracle:      oracle,
		EventID:     parts[1],
		Participant: parts[2],
	}, nil
}

// ParseMarket decodifica el id del mercado y comprueba que el prefijo coincida
// con el oracle declarado en el registro.
func ParseMarket(m Market) (MarketIdentity, error) {
	id, err := ParseMarketID(m.ID)
	if err != nil {
		return MarketIdentity{}, err
	}
	if id.Oracle != m.Oracle {
		return MarketIdentity{}, &ParseError{
			MarketID: m.ID,
			Reason:   "prefix " + id.Oracle.Prefix() + " does not match oracle " + m.Oracle.String(),
		}
	}
	return id, nil
}

// Normalize devuelve la clave canónica de un nombre de participante:
// minúsculas, espacios colapsados a un solo "_" y todo lo que no sea [a-z0-9_] eliminado.
// Es idempotente y acepta cualquier string.
func Normalize(name string) string {
	joined := strings.Join(strings.Fields(strings.ToLower(name)), IDDelimiter)

	var sb strings.Builder
	sb.Grow(len(joined))
	for _, r := range joined {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// MatchKind indica con qué confianza dos nombres se consideran el mismo participante.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchContains
	MatchExact
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchContains:
		return "contains"
	default:
		return "none"
	}
}

// CompareParticipants compara dos nombres por su clave canónica.
// Igualdad → MatchExact; una clave contenida en la otra → MatchContains.
// Una clave vacía nunca coincide.
func CompareParticipants(a, b string) MatchKind {
	ka, kb := Normalize(a), Normalize(b)
	if ka == "" || kb == "" {
		return MatchNone
	}
	if ka == kb {
		return MatchExact
	}
	if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
		return MatchContains
	}
	return MatchNone
}

