package dto

import (
	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// SlipView é o combiné em construção, já resolvido pra renderização.
type SlipView struct {
	MatchIDs  []string `json:"matchIds"`
	TotalOdds float64  `json:"totalOdds"`
	Placeable bool     `json:"placeable"`
}

// StakePreset é um atalho percentual da banca pro campo de mise.
type StakePreset struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// StateResponse é o snapshot completo do board.
type StateResponse struct {
	Matches      []registry.Match `json:"matches"`
	Slip         SlipView         `json:"slip"`
	Bankroll     float64          `json:"bankroll"`
	History      []ledger.Bet     `json:"history"`
	StakePresets []StakePreset    `json:"stakePresets"`
	AnalyzingID  string           `json:"analyzingMatchId,omitempty"`
}

type MatchResponse struct {
	Match registry.Match `json:"match"`
}

type GenerateMatchesResponse struct {
	Created []registry.Match `json:"created"`
}

type SuggestSlipResponse struct {
	MatchIDs      []string `json:"matchIds"`
	Justification string   `json:"justification"`
}

type PlaceBetResponse struct {
	Bet         ledger.Bet `json:"bet"`
	NewBankroll float64    `json:"newBankroll"`
}

type SettleBetResponse struct {
	Bet         ledger.Bet `json:"bet"`
	NewBankroll float64    `json:"newBankroll"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
