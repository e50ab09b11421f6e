package dto

import "github.com/radieske/pari-flow/internal/tracker-service/registry"

type CreateMatchRequest struct {
	registry.Fields
}

type SetStatusRequest struct {
	Status string `json:"status"` // um dos cinco estágios
}

type GenerateMatchesRequest struct {
	Date string `json:"date"` // "2006-01-02"
}

type ToggleSlipRequest struct {
	MatchID string `json:"matchId"`
}

type PlaceBetRequest struct {
	Stake float64 `json:"stake"`
}

type SettleBetRequest struct {
	Result string `json:"result"` // "won" | "lost"
}

type SetBankrollRequest struct {
	Bankroll float64 `json:"bankroll"`
}
