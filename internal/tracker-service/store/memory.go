package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Memory implementa Store em memória, com a mesma serialização JSON do
// backend Redis. Usado nos testes e como fallback quando o serviço roda
// sem Redis (estado descartado no shutdown).
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (s *Memory) set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = b
	s.mu.Unlock()
	return nil
}

func (s *Memory) get(key string, dst any) (bool, error) {
	s.mu.Lock()
	b, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// Corrupt grava bytes crus numa chave; usado nos testes pra simular
// um valor persistido que não parseia.
func (s *Memory) Corrupt(key string, raw []byte) {
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
}

func (s *Memory) SaveMatches(_ context.Context, matches []registry.Match) error {
	return s.set(KeyMatches, matches)
}

func (s *Memory) LoadMatches(_ context.Context) ([]registry.Match, bool, error) {
	var out []registry.Match
	ok, err := s.get(KeyMatches, &out)
	return out, ok, err
}

func (s *Memory) SaveBankroll(_ context.Context, bankroll float64) error {
	return s.set(KeyBankroll, bankroll)
}

func (s *Memory) LoadBankroll(_ context.Context) (float64, bool, error) {
	var out float64
	ok, err := s.get(KeyBankroll, &out)
	return out, ok, err
}

func (s *Memory) SaveBets(_ context.Context, bets []ledger.Bet) error {
	return s.set(KeyHistory, bets)
}

func (s *Memory) LoadBets(_ context.Context) ([]ledger.Bet, bool, error) {
	var out []ledger.Bet
	ok, err := s.get(KeyHistory, &out)
	return out, ok, err
}
