package events

type BetPlaced struct {
	BetID     string   `json:"bet_id"`
	MatchIDs  []string `json:"match_ids"`
	Stake     float64  `json:"stake"`
	TotalOdds float64  `json:"total_odds"`
	TsUnixMs  int64    `json:"ts_unix_ms"`
}
