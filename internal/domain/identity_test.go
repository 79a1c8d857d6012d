package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarketID_ParticipantWithDelimiter(t *testing.T) {
	id, err := ParseMarketID("sports_evt123_new_york_jets")
	require.NoError(t, err)
	assert.Equal(t, OracleSports, id.Oracle)
	assert.Equal(t, "evt123", id.EventID)
	assert.Equal(t, "new_york_jets", id.Participant)
}

func TestParseMarketID_Esports(t *testing.T) {
	id, err := ParseMarketID("esports_998877_team_liquid")
	require.NoError(t, err)
	assert.Equal(t, OracleEsports, id.Oracle)
	assert.Equal(t, "998877", id.EventID)
	assert.Equal(t, "team_liquid", id.Participant)
}

func TestParseMarketID_Invalid(t *testing.T) {
	cases := []string{
		"",
		"sports",
		"sports_evt1",
		"sports__lakers",
		"sports_evt1_",
		"sports_evt1_!!!",
		"politics_evt1_biden",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseMarketID(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnparseableID))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, c, pe.MarketID)
		})
	}
}

func TestParseMarket_OracleMismatch(t *testing.T) {
	_, err := ParseMarket(Market{ID: "esports_e1_fnatic", Oracle: OracleSports})
	assert.ErrorIs(t, err, ErrUnparseableID)

	id, err := ParseMarket(Market{ID: "esports_e1_fnatic", Oracle: OracleEsports})
	require.NoError(t, err)
	assert.Equal(t, "fnatic", id.Participant)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Los Angeles Lakers", "los_angeles_lakers"},
		{"  Boston   Celtics ", "boston_celtics"},
		{"Team\tLiquid\n", "team_liquid"},
		{"G2 Esports", "g2_esports"},
		{"Paris Saint-Germain", "paris_saintgermain"},
		{"new_york_jets", "new_york_jets"},
		{"", ""},
		{"!!!", ""},
		{"Atlético Madrid", "atltico_madrid"},
		{"東京", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "Los Angeles Lakers", "ÅÄÖ ß", "a - b", "__x__", "İstanbul Başakşehir",
		"Ninjas in Pyjamas", "100 Thieves", " nbsp ", "emoji 🎮 team", "東京 FC",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestCompareParticipants(t *testing.T) {
	assert.Equal(t, MatchExact, CompareParticipants("Los Angeles Lakers", "los_angeles_lakers"))
	assert.Equal(t, MatchContains, CompareParticipants("Lakers", "los_angeles_lakers"))
	assert.Equal(t, MatchContains, CompareParticipants("Los Angeles Lakers", "lakers"))
	assert.Equal(t, MatchNone, CompareParticipants("Boston Celtics", "los_angeles_lakers"))
	assert.Equal(t, MatchNone, CompareParticipants("", "lakers"))
	assert.Equal(t, MatchNone, CompareParticipants("???", "???"))
}

func TestOracleType(t *testing.T) {
	o, ok := ParseOracleType("sports")
	require.True(t, ok)
	assert.Equal(t, OracleSports, o)

	_, ok = ParseOracleType("politics")
	assert.False(t, ok)

	assert.False(t, OracleType(0).Valid())
	assert.Equal(t, "esports", OracleEsports.String())
}
