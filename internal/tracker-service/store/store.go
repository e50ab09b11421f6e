// Package store persiste o estado do tracker num key-value store:
// três valores JSON independentes, sem campo de versão. Valor ausente
// ou que não parseia é tratado como inexistente (cai no default).
package store

import (
	"context"

	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Chaves herdadas do layout persistido da primeira versão do app.
const (
	KeyMatches  = "pari-flow-matches"
	KeyBankroll = "pari-flow-bankroll"
	KeyHistory  = "pari-flow-bet-history"
)

// Store é o contrato de persistência da session. Os Load devolvem
// ok=false quando a chave não existe ou o valor não parseia.
type Store interface {
	SaveMatches(ctx context.Context, matches []registry.Match) error
	LoadMatches(ctx context.Context) ([]registry.Match, bool, error)

	SaveBankroll(ctx context.Context, bankroll float64) error
	LoadBankroll(ctx context.Context) (float64, bool, error)

	SaveBets(ctx context.Context, bets []ledger.Bet) error
	LoadBets(ctx context.Context) ([]ledger.Bet, bool, error)
}
