package domain

import "time"

// Resolution es un mercado resuelto con éxito en una ejecución.
type Resolution struct {
	MarketID string
	Outcome  Outcome
	Match    MatchKind
}

// Failure es un mercado cuyo comando resolve fue rechazado.
type Failure struct {
	MarketID string
	Outcome  Outcome
	Reason   string
}

// RunReport es el resumen estructurado de una ejecución del resolver.
//
// Todo mercado contado en OverdueTotal que no se saltó por no tener stake cae
// exactamente en uno de: Unparseable, NoResultFound, Resolved, Failed.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool

	OverdueTotal    int
	SkippedZeroPool int
	Unparseable     int
	NoResultFound   int
	Resolved        int
	Failed          int

	Resolutions []Resolution
	Failures    []Failure
	Ambiguous   []string          // resueltos por match de contención, para auditar
	Draws       []string          // mercados ligados a un evento empatado
	Pending     []string          // overdue con stake que siguen sin resolver
	FeedErrors  map[string]string // feed → error
	FeedEvents  map[string]int    // feed → eventos aportados
}

// Balanced comprueba el invariante estructural de los contadores.
func (r RunReport) Balanced() bool {
	return r.OverdueTotal-r.SkippedZeroPool == r.Unparseable+r.NoResultFound+r.Resolved+r.Failed
}

// Processed devuelve cuántos mercados pasaron el filtro de stake.
func (r RunReport) Processed() int {
	return r.OverdueTotal - r.SkippedZeroPool
}

// StuckMarket es un mercado que sigue overdue tras varias ejecuciones.
type StuckMarket struct {
	MarketID  string
	Attempts  int
	FirstSeen time.Time
	LastSeen  time.Time
}
