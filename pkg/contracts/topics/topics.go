package topics

const (
	// Bets
	BetPlaced  = "pariflow_bet_placed"
	BetSettled = "pariflow_bet_settled"
)
