package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Validação de borda: o JSON duck-typed do colaborador é convertido no
// modelo tipado aqui, e rejeitado inteiro em caso de violação — nunca
// propagamos dado parcial pro registry.

type generatedMatch struct {
	MatchDate         string   `json:"matchDate"`
	TeamA             string   `json:"teamA"`
	TeamB             string   `json:"teamB"`
	League            string   `json:"league"`
	Over25Probability float64  `json:"over25Probability"`
	AvgGoals          float64  `json:"avgGoals"`
	BTTSProbability   float64  `json:"bttsProbability"`
	AvgXG             float64  `json:"avgXG"`
	AvgXGA            float64  `json:"avgXGA"`
	RecentOver25Count float64  `json:"recentOver25Count"` // o modelo devolve number
	Odds              *float64 `json:"odds"`
}

func parseGeneratedMatches(raw []byte) ([]registry.Fields, error) {
	var items []generatedMatch
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse generated matches: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("parse generated matches: empty array")
	}

	out := make([]registry.Fields, len(items))
	for i, it := range items {
		if it.TeamA == "" || it.TeamB == "" || it.League == "" || it.MatchDate == "" {
			return nil, fmt.Errorf("parse generated matches: item %d missing descriptive fields", i)
		}
		if it.Odds == nil || *it.Odds <= 1.0 {
			return nil, fmt.Errorf("parse generated matches: item %d has invalid odds", i)
		}
		out[i] = registry.Fields{
			MatchDate:         it.MatchDate,
			TeamA:             it.TeamA,
			TeamB:             it.TeamB,
			League:            it.League,
			Over25Probability: it.Over25Probability,
			AvgGoals:          it.AvgGoals,
			BTTSProbability:   it.BTTSProbability,
			AvgXG:             it.AvgXG,
			AvgXGA:            it.AvgXGA,
			RecentOver25Count: int(it.RecentOver25Count),
			Odds:              *it.Odds,
		}
	}
	return out, nil
}

type formPayload struct {
	IsGoodCandidate *bool  `json:"isGoodCandidate"`
	Analysis        string `json:"analysis"`
	UpdatedStats    *struct {
		AvgXG             float64 `json:"avgXG"`
		AvgXGA            float64 `json:"avgXGA"`
		RecentOver25Count float64 `json:"recentOver25Count"`
	} `json:"updatedStats"`
}

func parseFormVerdict(raw []byte) (FormVerdict, error) {
	var p formPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return FormVerdict{}, fmt.Errorf("parse form verdict: %w", err)
	}
	if p.IsGoodCandidate == nil || p.UpdatedStats == nil || p.Analysis == "" {
		return FormVerdict{}, fmt.Errorf("parse form verdict: missing required fields")
	}
	return FormVerdict{
		IsGoodCandidate:   *p.IsGoodCandidate,
		Analysis:          p.Analysis,
		AvgXG:             p.UpdatedStats.AvgXG,
		AvgXGA:            p.UpdatedStats.AvgXGA,
		RecentOver25Count: int(p.UpdatedStats.RecentOver25Count),
	}, nil
}

type oddsPayload struct {
	IsGoodValue *bool  `json:"isGoodValue"`
	Analysis    string `json:"analysis"`
}

func parseOddsVerdict(raw []byte) (OddsVerdict, error) {
	var p oddsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return OddsVerdict{}, fmt.Errorf("parse odds verdict: %w", err)
	}
	if p.IsGoodValue == nil || p.Analysis == "" {
		return OddsVerdict{}, fmt.Errorf("parse odds verdict: missing required fields")
	}
	return OddsVerdict{IsGoodValue: *p.IsGoodValue, Analysis: p.Analysis}, nil
}

type suggestPayload struct {
	SelectedMatchIDs []string `json:"selectedMatchIds"`
	Justification    string   `json:"justification"`
}

func parseSlipSuggestion(raw []byte) (SlipSuggestion, error) {
	var p suggestPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return SlipSuggestion{}, fmt.Errorf("parse slip suggestion: %w", err)
	}
	if p.SelectedMatchIDs == nil {
		return SlipSuggestion{}, fmt.Errorf("parse slip suggestion: missing selectedMatchIds")
	}
	return SlipSuggestion{SelectedMatchIDs: p.SelectedMatchIDs, Justification: p.Justification}, nil
}
