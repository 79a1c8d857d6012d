package esports

import (
	"encoding/json"
	"strings"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

func mapStatus(s string) domain.EventStatus {
	switch strings.ToLower(s) {
	case "not_started":
		return domain.StatusScheduled
	case "running":
		return domain.StatusLive
	case "finished":
		return domain.StatusFinished
	default:
		return domain.StatusUnknown
	}
}

// mapMatches convierte los partidos en resultados indexados por id.
// Los partidos sin id o con menos de dos rivales se descartan.
func mapMatches(raw []match, source string) map[string]domain.EventResult {
	out := make(map[string]domain.EventResult, len(raw))
	for _, m := range raw {
		id := m.ID.String()
		if id == "" || len(m.Opponents) < 2 {
			continue
		}
		a, b := m.Opponents[0].Opponent, m.Opponents[1].Opponent

		r := domain.EventResult{
			Oracle:       domain.OracleEsports,
			EventID:      id,
			ParticipantA: a.Name,
			ParticipantB: b.Name,
			Status:       mapStatus(m.Status),
			Source:       source,
		}

		switch {
		case m.Winner != nil && m.Winner.Name != "":
			r.Winner = m.Winner.Name
		case m.WinnerID != "" && m.WinnerID == a.ID:
			r.Winner = a.Name
		case m.WinnerID != "" && m.WinnerID == b.ID:
			r.Winner = b.Name
		}

		r.Scores = mapScores(m.Results, a.ID, b.ID)
		out[id] = r
	}
	return out
}

// mapScores devuelve el marcador en el orden de los rivales, o nil si falta alguno.
func mapScores(results []result, idA, idB json.Number) *domain.Scores {
	if idA == "" || idB == "" || idA == idB {
		return nil
	}
	var s domain.Scores
	var gotA, gotB bool
	for _, r := range results {
		switch r.TeamID {
		case idA:
			s.A, gotA = r.Score, true
		case idB:
			s.B, gotB = r.Score, true
		}
	}
	if !gotA || !gotB {
		return nil
	}
	return &s
}
