package esports

import "encoding/json"

// match es un partido de los endpoints /matches/*. Los ids llegan como números.
type match struct {
	ID        json.Number `json:"id"`
	Status    string      `json:"status"`
	Opponents []opponent  `json:"opponents"`
	Winner    *team       `json:"winner"`
	WinnerID  json.Number `json:"winner_id"`
	Results   []result    `json:"results"`
}

type opponent struct {
	Opponent team `json:"opponent"`
}

type team struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type result struct {
	TeamID json.Number `json:"team_id"`
	Score  float64     `json:"score"`
}
