package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Redis implementa Store sobre um Redis local. Os valores não expiram:
// o Redis aqui faz papel de storage do usuário, não de cache.
type Redis struct {
	R   *redis.Client
	log *zap.Logger
}

func NewRedis(r *redis.Client, log *zap.Logger) *Redis {
	return &Redis{R: r, log: log}
}

func (s *Redis) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.R.Set(ctx, key, b, 0).Err()
}

// get devolve ok=false pra chave ausente ou valor corrompido;
// erro só em falha de transporte.
func (s *Redis) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := s.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		s.log.Warn("stored value does not parse, falling back to default",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *Redis) SaveMatches(ctx context.Context, matches []registry.Match) error {
	return s.set(ctx, KeyMatches, matches)
}

func (s *Redis) LoadMatches(ctx context.Context) ([]registry.Match, bool, error) {
	var out []registry.Match
	ok, err := s.get(ctx, KeyMatches, &out)
	return out, ok, err
}

func (s *Redis) SaveBankroll(ctx context.Context, bankroll float64) error {
	return s.set(ctx, KeyBankroll, bankroll)
}

func (s *Redis) LoadBankroll(ctx context.Context) (float64, bool, error) {
	var out float64
	ok, err := s.get(ctx, KeyBankroll, &out)
	return out, ok, err
}

func (s *Redis) SaveBets(ctx context.Context, bets []ledger.Bet) error {
	return s.set(ctx, KeyHistory, bets)
}

func (s *Redis) LoadBets(ctx context.Context) ([]ledger.Bet, bool, error) {
	var out []ledger.Bet
	ok, err := s.get(ctx, KeyHistory, &out)
	return out, ok, err
}
