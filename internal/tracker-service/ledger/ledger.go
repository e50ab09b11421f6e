package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

var (
	ErrInsufficientBankroll = errors.New("insufficient bankroll")
	ErrInvalidComposition   = errors.New("invalid slip composition")
)

// Regras de composição do combiné.
const (
	MinSlipSize  = 2
	MaxSlipSize  = 3
	MaxTotalOdds = 2.5
)

// Ledger guarda o combiné em construção, o histórico de apostas e a banca.
// Não é seguro pra uso concorrente: a session serializa o acesso.
// O slip referencia matches por id; o registro dono é o registry.
type Ledger struct {
	bankroll float64
	slip     []string
	bets     []Bet
}

// New reidrata o ledger. O slip é efêmero e começa sempre vazio.
func New(bankroll float64, bets []Bet) *Ledger {
	l := &Ledger{bankroll: bankroll}
	l.bets = make([]Bet, len(bets))
	for i, b := range bets {
		l.bets[i] = cloneBet(b)
	}
	return l
}

func (l *Ledger) Bankroll() float64 { return l.bankroll }

// SetBankroll sobrescreve a banca (ajuste manual do usuário).
func (l *Ledger) SetBankroll(v float64) { l.bankroll = v }

// Slip devolve os ids do combiné em ordem de inclusão.
func (l *Ledger) Slip() []string {
	out := make([]string, len(l.slip))
	copy(out, l.slip)
	return out
}

func (l *Ledger) InSlip(id string) bool {
	for _, sid := range l.slip {
		if sid == id {
			return true
		}
	}
	return false
}

// Toggle remove o id se já está no slip; senão inclui, respeitando o
// teto de MaxSlipSize (acima disso é no-op silencioso). Devolve se o
// id está no slip após a chamada.
func (l *Ledger) Toggle(id string) bool {
	for i, sid := range l.slip {
		if sid == id {
			l.slip = append(l.slip[:i], l.slip[i+1:]...)
			return false
		}
	}
	if len(l.slip) < MaxSlipSize {
		l.slip = append(l.slip, id)
		return true
	}
	return false
}

// RemoveFromSlip tira o id do combiné; no-op se ausente.
// Chamado quando o match é deletado do registry.
func (l *Ledger) RemoveFromSlip(id string) {
	for i, sid := range l.slip {
		if sid == id {
			l.slip = append(l.slip[:i], l.slip[i+1:]...)
			return
		}
	}
}

// ReplaceSlip troca o combiné inteiro (sugestão da IA).
func (l *Ledger) ReplaceSlip(ids []string) {
	l.slip = make([]string, 0, len(ids))
	l.slip = append(l.slip, ids...)
}

// TotalOdds é o produto das cotas; produto vazio vale 1.
func TotalOdds(matches []registry.Match) float64 {
	total := 1.0
	for _, m := range matches {
		total *= m.Odds
	}
	return total
}

// IsPlaceable valida a composição: 2 ou 3 matchs e cota total <= 2.5.
// Precondição que o chamador checa antes de PlaceBet.
func IsPlaceable(size int, totalOdds float64) bool {
	return size >= MinSlipSize && size <= MaxSlipSize && totalOdds <= MaxTotalOdds
}

// PlaceBet valida apenas a suficiência da banca; a composição é
// responsabilidade do chamador (IsPlaceable). No sucesso: snapshot
// imutável dos matches, histórico com o mais recente primeiro, banca
// debitada e slip limpo. Arquivar os matches fica com o registry.
func (l *Ledger) PlaceBet(matches []registry.Match, stake float64) (Bet, error) {
	if stake > l.bankroll {
		return Bet{}, ErrInsufficientBankroll
	}

	snapshot := make([]registry.Match, len(matches))
	for i, m := range matches {
		snapshot[i] = m.Clone()
	}

	bet := Bet{
		ID:        "bet-" + uuid.NewString(),
		Matches:   snapshot,
		Stake:     stake,
		TotalOdds: TotalOdds(matches),
		Date:      time.Now().UTC(),
		Result:    ResultPending,
	}

	l.bets = append([]Bet{bet}, l.bets...)
	l.bankroll -= stake
	l.slip = nil

	return cloneBet(bet), nil
}

// Settle aplica o desfecho uma única vez: pending -> won|lost.
// Aposta inexistente ou já liquidada é no-op. Won credita stake * totalOdds.
func (l *Ledger) Settle(id string, res Result) (Bet, bool) {
	if !res.Valid() {
		return Bet{}, false
	}
	for i := range l.bets {
		if l.bets[i].ID != id {
			continue
		}
		if l.bets[i].Result != ResultPending {
			return Bet{}, false
		}
		l.bets[i].Result = res
		if res == ResultWon {
			l.bankroll += l.bets[i].Payout()
		}
		return cloneBet(l.bets[i]), true
	}
	return Bet{}, false
}

// Bets devolve cópias do histórico, mais recente primeiro.
func (l *Ledger) Bets() []Bet {
	out := make([]Bet, len(l.bets))
	for i, b := range l.bets {
		out[i] = cloneBet(b)
	}
	return out
}

// Bet devolve uma cópia da aposta pelo id.
func (l *Ledger) Bet(id string) (Bet, bool) {
	for _, b := range l.bets {
		if b.ID == id {
			return cloneBet(b), true
		}
	}
	return Bet{}, false
}

func cloneBet(b Bet) Bet {
	c := b
	c.Matches = make([]registry.Match, len(b.Matches))
	for i, m := range b.Matches {
		c.Matches[i] = m.Clone()
	}
	return c
}
