package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneratedMatches(t *testing.T) {
	raw := []byte(`[
		{"matchDate":"2025-10-01","teamA":"FC Dynamo","teamB":"AC Metropolis","league":"Champions League",
		 "over25Probability":75,"avgGoals":3.1,"bttsProbability":68,"avgXG":1.8,"avgXGA":1.4,
		 "recentOver25Count":4,"odds":1.58},
		{"matchDate":"2025-10-01","teamA":"United Strikers","teamB":"Olympique City","league":"Europa League",
		 "over25Probability":68,"avgGoals":2.9,"bttsProbability":72,"avgXG":1.7,"avgXGA":1.5,
		 "recentOver25Count":3,"odds":1.65}
	]`)

	fields, err := parseGeneratedMatches(raw)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "FC Dynamo", fields[0].TeamA)
	assert.Equal(t, 4, fields[0].RecentOver25Count)
	assert.Equal(t, 1.65, fields[1].Odds)
}

func TestParseGeneratedMatches_Rejections(t *testing.T) {
	cases := map[string]string{
		"not json":       `{"oops"`,
		"empty array":    `[]`,
		"missing teams":  `[{"matchDate":"2025-10-01","teamA":"","teamB":"B","league":"L","odds":1.5}]`,
		"missing odds":   `[{"matchDate":"2025-10-01","teamA":"A","teamB":"B","league":"L"}]`,
		"odds not > 1.0": `[{"matchDate":"2025-10-01","teamA":"A","teamB":"B","league":"L","odds":1.0}]`,
		"object payload": `{"matchDate":"2025-10-01"}`,
	}
	for name, raw := range cases {
		_, err := parseGeneratedMatches([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestParseFormVerdict(t *testing.T) {
	raw := []byte(`{"isGoodCandidate":true,"analysis":"xG élevé et forme récente solide",
		"updatedStats":{"avgXG":1.9,"avgXGA":1.4,"recentOver25Count":4}}`)

	v, err := parseFormVerdict(raw)
	require.NoError(t, err)
	assert.True(t, v.IsGoodCandidate)
	assert.Equal(t, 1.9, v.AvgXG)
	assert.Equal(t, 4, v.RecentOver25Count)
}

func TestParseFormVerdict_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing verdict": `{"analysis":"ok","updatedStats":{"avgXG":1,"avgXGA":1,"recentOver25Count":1}}`,
		"missing stats":   `{"isGoodCandidate":false,"analysis":"ok"}`,
		"empty analysis":  `{"isGoodCandidate":true,"analysis":"","updatedStats":{"avgXG":1,"avgXGA":1,"recentOver25Count":1}}`,
		"not json":        `nope`,
	}
	for name, raw := range cases {
		_, err := parseFormVerdict([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestParseOddsVerdict(t *testing.T) {
	v, err := parseOddsVerdict([]byte(`{"isGoodValue":false,"analysis":"cote hors fourchette"}`))
	require.NoError(t, err)
	assert.False(t, v.IsGoodValue)
	assert.Equal(t, "cote hors fourchette", v.Analysis)

	_, err = parseOddsVerdict([]byte(`{"analysis":"ok"}`))
	assert.Error(t, err, "veredito ausente é violação de schema")
}

func TestParseSlipSuggestion(t *testing.T) {
	s, err := parseSlipSuggestion([]byte(`{"selectedMatchIds":["m1","m2"],"justification":"stabilité"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, s.SelectedMatchIDs)
	assert.Equal(t, "stabilité", s.Justification)

	// array vazio é resposta válida: o chamador deixa o slip como está
	s, err = parseSlipSuggestion([]byte(`{"selectedMatchIds":[],"justification":"aucun combiné optimal"}`))
	require.NoError(t, err)
	assert.Empty(t, s.SelectedMatchIDs)

	_, err = parseSlipSuggestion([]byte(`{"justification":"sans ids"}`))
	assert.Error(t, err)
}
