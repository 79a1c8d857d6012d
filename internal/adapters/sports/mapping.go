package sports

import (
	"strconv"
	"strings"

	"github.com/alejandrodnm/resolverbot/internal/domain"
)

func mapStatus(s eventStatus) domain.EventStatus {
	switch s.Type.State {
	case "pre":
		return domain.StatusScheduled
	case "in":
		return domain.StatusLive
	case "post":
		// "post" sin completed = aplazado o suspendido
		if s.Type.Completed {
			return domain.StatusFinished
		}
		return domain.StatusUnknown
	default:
		return domain.StatusUnknown
	}
}

// mapEvents convierte el scoreboard a resultados. Local → participante A,
// visitante → participante B.
func mapEvents(raw []event, source string) map[string]domain.EventResult {
	out := make(map[string]domain.EventResult, len(raw))
	for _, e := range raw {
		if e.ID == "" || len(e.Competitions) == 0 {
			continue
		}
		home, away, ok := splitCompetitors(e.Competitions[0].Competitors)
		if !ok {
			continue
		}

		r := domain.EventResult{
			Oracle:       domain.OracleSports,
			EventID:      e.ID,
			ParticipantA: home.Team.DisplayName,
			ParticipantB: away.Team.DisplayName,
			Status:       mapStatus(e.Status),
			Source:       source,
		}
		switch {
		case home.Winner && !away.Winner:
			r.Winner = home.Team.DisplayName
		case away.Winner && !home.Winner:
			r.Winner = away.Team.DisplayName
		}

		hs, errH := parseScore(home.Score)
		as, errA := parseScore(away.Score)
		if errH == nil && errA == nil {
			r.Scores = &domain.Scores{A: hs, B: as}
		}

		out[e.ID] = r
	}
	return out
}

// splitCompetitors devuelve local y visitante. Si homeAway falta usa el orden.
func splitCompetitors(cs []competitor) (home, away competitor, ok bool) {
	if len(cs) != 2 {
		return competitor{}, competitor{}, false
	}
	if cs[1].HomeAway == "home" || cs[0].HomeAway == "away" {
		return cs[1], cs[0], true
	}
	return cs[0], cs[1], true
}

func parseScore(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
