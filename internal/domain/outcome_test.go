package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lakersCeltics() *EventResult {
	return &EventResult{
		Oracle:       OracleSports,
		EventID:      "e1",
		ParticipantA: "Los Angeles Lakers",
		ParticipantB: "Boston Celtics",
		Status:       StatusFinished,
		Scores:       &Scores{A: 110, B: 101},
	}
}

func identity(t *testing.T, marketID string) MarketIdentity {
	t.Helper()
	id, err := ParseMarketID(marketID)
	if err != nil {
		t.Fatalf("parse %q: %v", marketID, err)
	}
	return id
}

func TestDecide_ScoresWinnerYes(t *testing.T) {
	d := Decide(identity(t, "sports_e1_los_angeles_lakers"), lakersCeltics(), DrawResolveNo)
	assert.Equal(t, OutcomeYes, d.Outcome)
	assert.Equal(t, MatchExact, d.Match)
	assert.False(t, d.Ambiguous())
}

func TestDecide_ScoresLoserNo(t *testing.T) {
	d := Decide(identity(t, "sports_e1_boston_celtics"), lakersCeltics(), DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.Equal(t, MatchExact, d.Match)
}

func TestDecide_NoResult(t *testing.T) {
	d := Decide(identity(t, "sports_e1_boston_celtics"), nil, DrawResolveNo)
	assert.Equal(t, OutcomeUnknown, d.Outcome)
	assert.False(t, d.Outcome.Dispatchable())
}

func TestDecide_LiveWithoutWinnerIsUnknown(t *testing.T) {
	r := lakersCeltics()
	r.Status = StatusLive
	for _, m := range []string{"sports_e1_los_angeles_lakers", "sports_e1_boston_celtics", "sports_e1_chicago_bulls"} {
		assert.Equal(t, OutcomeUnknown, Decide(identity(t, m), r, DrawResolveNo).Outcome, m)
	}

	r.Status = StatusScheduled
	assert.Equal(t, OutcomeUnknown, Decide(identity(t, "sports_e1_boston_celtics"), r, DrawResolveNo).Outcome)
}

func TestDecide_DrawResolvesNo(t *testing.T) {
	r := lakersCeltics()
	r.Scores = &Scores{A: 99, B: 99}
	for _, m := range []string{"sports_e1_los_angeles_lakers", "sports_e1_boston_celtics"} {
		d := Decide(identity(t, m), r, DrawResolveNo)
		assert.Equal(t, OutcomeNo, d.Outcome, m)
		assert.True(t, d.Draw)
	}
}

func TestDecide_DrawMatchReflectsMembership(t *testing.T) {
	r := lakersCeltics()
	r.Scores = &Scores{A: 99, B: 99}

	d := Decide(identity(t, "sports_e1_boston_celtics"), r, DrawResolveNo)
	assert.Equal(t, MatchExact, d.Match)
	assert.False(t, d.Ambiguous())

	d = Decide(identity(t, "sports_e1_celtics"), r, DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.Equal(t, MatchContains, d.Match)

	d = Decide(identity(t, "sports_e1_chicago_bulls"), r, DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.Equal(t, MatchNone, d.Match)
	assert.True(t, d.Ambiguous())
}

func TestDecide_DrawHold(t *testing.T) {
	r := lakersCeltics()
	r.Scores = &Scores{A: 1, B: 1}
	d := Decide(identity(t, "sports_e1_boston_celtics"), r, DrawHold)
	assert.Equal(t, OutcomeUnknown, d.Outcome)
	assert.True(t, d.Draw)
}

func TestDecide_FinishedWithoutScores(t *testing.T) {
	r := lakersCeltics()
	r.Scores = nil
	assert.Equal(t, OutcomeUnknown, Decide(identity(t, "sports_e1_boston_celtics"), r, DrawResolveNo).Outcome)
}

func TestDecide_ExplicitWinnerBeatsStatus(t *testing.T) {
	r := &EventResult{
		ParticipantA: "Team Liquid",
		ParticipantB: "Fnatic",
		Winner:       "Fnatic",
		Status:       StatusLive,
	}
	assert.Equal(t, OutcomeYes, Decide(identity(t, "esports_77_fnatic"), r, DrawResolveNo).Outcome)
	assert.Equal(t, OutcomeNo, Decide(identity(t, "esports_77_team_liquid"), r, DrawResolveNo).Outcome)
}

func TestDecide_ParticipantNotInEvent(t *testing.T) {
	d := Decide(identity(t, "sports_e1_chicago_bulls"), lakersCeltics(), DrawResolveNo)
	assert.Equal(t, OutcomeUnknown, d.Outcome)
}

func TestDecide_ContainmentIsAmbiguous(t *testing.T) {
	r := &EventResult{
		ParticipantA: "Los Angeles Lakers",
		ParticipantB: "Boston Celtics",
		Winner:       "Lakers",
		Status:       StatusFinished,
	}
	d := Decide(identity(t, "sports_e1_lakers"), r, DrawResolveNo)
	assert.Equal(t, OutcomeYes, d.Outcome)
	assert.Equal(t, MatchExact, d.Match)

	d = Decide(identity(t, "sports_e1_los_angeles_lakers"), r, DrawResolveNo)
	assert.Equal(t, OutcomeYes, d.Outcome, "winner side identified through partial winner name")
	assert.Equal(t, MatchContains, d.Match)
	assert.True(t, d.Ambiguous())

	d = Decide(identity(t, "sports_e1_celtics"), r, DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.True(t, d.Ambiguous())
}

func TestDecide_ShortWinnerNameIsAmbiguous(t *testing.T) {
	r := &EventResult{
		ParticipantA: "Los Angeles Lakers",
		ParticipantB: "Boston Celtics",
		Winner:       "LA",
		Status:       StatusFinished,
	}

	d := Decide(identity(t, "sports_e1_los_angeles_lakers"), r, DrawResolveNo)
	assert.Equal(t, OutcomeYes, d.Outcome)
	assert.Equal(t, MatchContains, d.Match)
	assert.True(t, d.Ambiguous())

	d = Decide(identity(t, "sports_e1_boston_celtics"), r, DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.Equal(t, MatchContains, d.Match, "loser side placed through the same partial match")
	assert.True(t, d.Ambiguous())
}

func TestDecide_ExactLoserBeatsPartialWinner(t *testing.T) {
	r := &EventResult{
		ParticipantA: "Real Madrid",
		ParticipantB: "Real Madrid Castilla",
		Winner:       "Real Madrid Castilla",
		Status:       StatusFinished,
	}
	d := Decide(identity(t, "sports_e9_real_madrid"), r, DrawResolveNo)
	assert.Equal(t, OutcomeNo, d.Outcome)
	assert.Equal(t, MatchExact, d.Match)

	d = Decide(identity(t, "sports_e9_real_madrid_castilla"), r, DrawResolveNo)
	assert.Equal(t, OutcomeYes, d.Outcome)
}

func TestParseDrawPolicy(t *testing.T) {
	assert.Equal(t, DrawHold, ParseDrawPolicy("hold"))
	assert.Equal(t, DrawResolveNo, ParseDrawPolicy("no"))
	assert.Equal(t, DrawResolveNo, ParseDrawPolicy(""))
}
