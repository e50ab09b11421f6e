package ledger

import (
	"time"

	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Result é o desfecho de uma aposta.
type Result string

const (
	ResultPending Result = "pending"
	ResultWon     Result = "won"
	ResultLost    Result = "lost"
)

// Valid reporta se o valor é um desfecho liquidável (won ou lost).
func (r Result) Valid() bool { return r == ResultWon || r == ResultLost }

// Bet é o registro imutável de um combiné colocado. Matches é um
// snapshot copiado no momento da aposta: edições posteriores no
// registry não alteram o histórico.
type Bet struct {
	ID        string           `json:"id"`
	Matches   []registry.Match `json:"matches"`
	Stake     float64          `json:"stake"`
	TotalOdds float64          `json:"totalOdds"`
	Date      time.Time        `json:"date"`
	Result    Result           `json:"result"`
}

// Payout é o retorno bruto caso a aposta ganhe.
func (b Bet) Payout() float64 { return b.Stake * b.TotalOdds }
