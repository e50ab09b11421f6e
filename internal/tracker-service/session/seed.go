package session

import "github.com/radieske/pari-flow/internal/tracker-service/registry"

// DefaultBankroll é a banca inicial quando não há valor persistido.
const DefaultBankroll = 1000

// seedMatches é o shortlist de exemplo carregado no primeiro uso,
// quando ainda não existe lista persistida.
func seedMatches() []registry.Match {
	return []registry.Match{
		{
			ID:                "match-20251001-1",
			MatchDate:         "2025-10-01",
			TeamA:             "FC Dynamo",
			TeamB:             "AC Metropolis",
			League:            "Champions League",
			Status:            registry.StatusShortlist,
			Over25Probability: 75,
			AvgGoals:          3.1,
			BTTSProbability:   68,
			AvgXG:             1.8,
			AvgXGA:            1.4,
			RecentOver25Count: 4,
			Odds:              1.58,
		},
		{
			ID:                "match-20251001-2",
			MatchDate:         "2025-10-01",
			TeamA:             "United Strikers",
			TeamB:             "Olympique City",
			League:            "Europa League",
			Status:            registry.StatusShortlist,
			Over25Probability: 68,
			AvgGoals:          2.9,
			BTTSProbability:   72,
			AvgXG:             1.7,
			AvgXGA:            1.5,
			RecentOver25Count: 3,
			Odds:              1.65,
		},
		{
			ID:                "match-20251001-3",
			MatchDate:         "2025-10-01",
			TeamA:             "Vanguards FC",
			TeamB:             "SC Titans",
			League:            "Ligue Nationale Majeure",
			Status:            registry.StatusShortlist,
			Over25Probability: 80,
			AvgGoals:          3.4,
			BTTSProbability:   61,
			AvgXG:             2.1,
			AvgXGA:            1.3,
			RecentOver25Count: 5,
			Odds:              1.52,
		},
	}
}
