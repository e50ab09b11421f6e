package events

// Evento emitido quando o usuário marca um combiné como ganho ou perdido.
type BetSettled struct {
	BetID    string  `json:"bet_id"`
	Result   string  `json:"result"` // "won" | "lost"
	Payout   float64 `json:"payout"` // stake * totalOdds quando won, senão 0
	TsUnixMs int64   `json:"ts_unix_ms"`
}
