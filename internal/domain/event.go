package domain

// EventStatus es el estado normalizado de un evento en un feed de resultados.
type EventStatus int

const (
	StatusUnknown EventStatus = iota
	StatusScheduled
	StatusLive
	StatusFinished
)

func (s EventStatus) String() string {
	switch s {
	case StatusScheduled:
		return "scheduled"
	case StatusLive:
		return "live"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Scores es el marcador final de un evento, en el orden de los participantes.
type Scores struct {
	A float64
	B float64
}

// EventResult es un resultado de evento derivado de la respuesta de un proveedor.
// Solo vive en memoria durante una ejecución.
type EventResult struct {
	Oracle       OracleType
	EventID      string
	ParticipantA string
	ParticipantB string
	Winner       string // vacío = todavía sin ganador
	Status       EventStatus
	Scores       *Scores
	Source       string // nombre del feed que lo produjo
}

// HasWinner devuelve true si el proveedor declaró un ganador.
func (r EventResult) HasWinner() bool {
	return r.Winner != ""
}

// ResultKey identifica un evento dentro de un oracle.
type ResultKey struct {
	Oracle  OracleType
	EventID string
}

// ResultMap es el mapa de resultados fusionado de todos los feeds de una ejecución.
// Se construye desde cero en cada ejecución y es de solo lectura una vez fusionado.
type ResultMap map[ResultKey]EventResult

// Lookup devuelve el resultado para el evento dado, o nil si ningún feed lo trajo.
func (m ResultMap) Lookup(oracle OracleType, eventID string) *EventResult {
	r, ok := m[ResultKey{Oracle: oracle, EventID: eventID}]
	if !ok {
		return nil
	}
	return &r
}

// Merge copia los resultados de un feed en el mapa. Los eventos ya presentes
// se sobreescriben, así que el orden de llamada define la prioridad.
func (m ResultMap) Merge(oracle OracleType, results map[string]EventResult) {
	for id, r := range results {
		r.Oracle = oracle
		if r.EventID == "" {
			r.EventID = id
		}
		m[ResultKey{Oracle: oracle, EventID: id}] = r
	}
}
