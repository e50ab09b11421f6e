// Package session é o container de estado do tracker: registry, ledger
// e flags de requisição em voo, atrás de um único mutex. O mutex é
// liberado enquanto uma chamada ao colaborador está pendente, então o
// board continua editável durante a espera.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/radieske/pari-flow/internal/shared/metrics"
	"github.com/radieske/pari-flow/internal/tracker-service/analysis"
	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
	"github.com/radieske/pari-flow/internal/tracker-service/store"
)

var (
	ErrMatchNotFound      = errors.New("match not found")
	ErrAnalysisInFlight   = errors.New("analysis already in flight")
	ErrGenerationInFlight = errors.New("generation already in flight")
	ErrSuggestionInFlight = errors.New("suggestion already in flight")
	ErrNotEnoughFinalists = errors.New("at least 2 final selection matches are required")
)

// Session é dona do estado mutável do app inteiro.
type Session struct {
	log   *zap.Logger
	store store.Store
	ai    analysis.Service

	mu  sync.Mutex
	reg *registry.Registry
	led *ledger.Ledger

	// marcadores de requisição em voo, checados antes de emitir uma
	// nova chamada ao colaborador
	analyzingID string
	generating  bool
	suggesting  bool
}

// State é o snapshot consistente devolvido pra camada HTTP.
type State struct {
	Matches   []registry.Match
	Slip      []string
	TotalOdds float64
	Placeable bool
	Bankroll  float64
	History   []ledger.Bet
}

// New reidrata a session do store ou semeia os defaults. Cada chave
// carrega de forma independente; valor ausente ou corrompido cai no
// default sem afetar as demais.
func New(ctx context.Context, st store.Store, ai analysis.Service, log *zap.Logger) (*Session, error) {
	s := &Session{log: log, store: st, ai: ai, reg: registry.New()}

	matches, ok, err := st.LoadMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	if !ok {
		matches = seedMatches()
		log.Info("no persisted match list, seeding defaults", zap.Int("count", len(matches)))
	}
	s.reg.Load(matches)

	bankroll, ok, err := st.LoadBankroll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bankroll: %w", err)
	}
	if !ok {
		bankroll = DefaultBankroll
	}

	bets, ok, err := st.LoadBets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bet history: %w", err)
	}
	if !ok {
		bets = nil
	}

	s.led = ledger.New(bankroll, bets)
	metrics.BankrollBalance.Set(bankroll)
	return s, nil
}

// Snapshot devolve o estado do board pra renderização.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	slipMatches := s.slipMatchesLocked()
	total := ledger.TotalOdds(slipMatches)
	return State{
		Matches:   s.reg.List(),
		Slip:      s.led.Slip(),
		TotalOdds: total,
		Placeable: ledger.IsPlaceable(len(slipMatches), total),
		Bankroll:  s.led.Bankroll(),
		History:   s.led.Bets(),
	}
}

// slipMatchesLocked resolve os ids do slip contra o registry.
func (s *Session) slipMatchesLocked() []registry.Match {
	ids := s.led.Slip()
	out := make([]registry.Match, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.reg.Get(id); ok {
			out = append(out, m)
		}
	}
	return out
}

// CreateMatch registra um match manual no shortlist.
func (s *Session) CreateMatch(f registry.Fields) registry.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.reg.Create(f)
	metrics.MatchesCreated.Inc()
	s.persistMatchesLocked()
	return m
}

// DeleteMatch remove o match do registry e do slip, atomicamente do
// ponto de vista do chamador.
func (s *Session) DeleteMatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reg.Delete(id) {
		s.led.RemoveFromSlip(id)
		s.persistMatchesLocked()
	}
}

// SetMatchStatus é o reassinalamento via drag: sobrescrita sem guarda.
func (s *Session) SetMatchStatus(id string, st registry.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reg.SetStatus(id, st) {
		return false
	}
	s.persistMatchesLocked()
	return true
}

// GetMatch devolve uma cópia do match.
func (s *Session) GetMatch(id string) (registry.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Get(id)
}

// SetBankroll é o ajuste manual da banca.
func (s *Session) SetBankroll(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.led.SetBankroll(v)
	metrics.BankrollBalance.Set(v)
	s.persistBankrollLocked()
}

// ToggleSlip inclui ou remove o match do combiné.
func (s *Session) ToggleSlip(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reg.Get(id); !ok {
		return ErrMatchNotFound
	}
	s.led.Toggle(id)
	return nil
}

// PlaceBet valida a composição (precondição IsPlaceable), delega ao
// ledger e arquiva os matches do combiné.
func (s *Session) PlaceBet(stake float64) (ledger.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slipMatches := s.slipMatchesLocked()
	total := ledger.TotalOdds(slipMatches)
	if !ledger.IsPlaceable(len(slipMatches), total) {
		return ledger.Bet{}, ledger.ErrInvalidComposition
	}

	bet, err := s.led.PlaceBet(slipMatches, stake)
	if err != nil {
		return ledger.Bet{}, err
	}

	for _, m := range slipMatches {
		s.reg.SetStatus(m.ID, registry.StatusArchived)
	}

	metrics.BetsPlaced.Inc()
	metrics.BankrollBalance.Set(s.led.Bankroll())
	s.persistMatchesLocked()
	s.persistBankrollLocked()
	s.persistBetsLocked()
	return bet, nil
}

// SettleBet aplica won|lost uma única vez; desconhecido ou já
// liquidado é no-op.
func (s *Session) SettleBet(id string, res ledger.Result) (ledger.Bet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bet, ok := s.led.Settle(id, res)
	if !ok {
		return ledger.Bet{}, false
	}

	metrics.BetsSettled.WithLabelValues(string(res)).Inc()
	metrics.BankrollBalance.Set(s.led.Bankroll())
	s.persistBetsLocked()
	if res == ledger.ResultWon {
		s.persistBankrollLocked()
	}
	return bet, true
}

// GenerateMatches pede candidatos ao colaborador pra data alvo.
// Inserção tudo-ou-nada: falha da chamada não muta o registry.
func (s *Session) GenerateMatches(ctx context.Context, date string) ([]registry.Match, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.generating = true
	s.mu.Unlock()

	fields, err := s.ai.GenerateMatches(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if err != nil {
		return nil, fmt.Errorf("generate matches: %w", err)
	}

	created := make([]registry.Match, len(fields))
	for i, f := range fields {
		created[i] = s.reg.Create(f)
		metrics.MatchesCreated.Inc()
	}
	s.persistMatchesLocked()
	return created, nil
}

// AnalyzeMatch roda a análise completa: forma primeiro; veredito
// negativo só faz patch de stats e anotação, status intacto. Veredito
// positivo encadeia a análise de cotas, que decide entre
// final_selection e odds_check. Nada é gravado enquanto uma chamada
// ainda pode falhar: falha em qualquer etapa deixa o match exatamente
// como estava. Se o match sumir enquanto a chamada está em voo, o
// resultado é descartado e o chamador recebe ErrMatchNotFound.
func (s *Session) AnalyzeMatch(ctx context.Context, id string) (registry.Match, error) {
	s.mu.Lock()
	if s.analyzingID != "" {
		s.mu.Unlock()
		return registry.Match{}, ErrAnalysisInFlight
	}
	m, ok := s.reg.Get(id)
	if !ok {
		s.mu.Unlock()
		return registry.Match{}, ErrMatchNotFound
	}
	s.analyzingID = id
	s.mu.Unlock()

	form, err := s.ai.AnalyzeForm(ctx, m)

	s.mu.Lock()
	if err != nil {
		s.analyzingID = ""
		s.mu.Unlock()
		return registry.Match{}, fmt.Errorf("form analysis: %w", err)
	}

	if !form.IsGoodCandidate {
		defer s.mu.Unlock()
		s.analyzingID = ""
		if !s.reg.Patch(id, formUpdate(form)) {
			return registry.Match{}, ErrMatchNotFound
		}
		s.persistMatchesLocked()
		out, _ := s.reg.Get(id)
		return out, nil
	}
	s.mu.Unlock()

	verdict, err := s.ai.AnalyzeOdds(ctx, m)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzingID = ""
	if err != nil {
		return registry.Match{}, fmt.Errorf("odds analysis: %w", err)
	}

	// as duas etapas resolveram; o patch de forma só entra agora
	next := registry.StatusOddsCheck
	if verdict.IsGoodValue {
		next = registry.StatusFinalSelection
	}
	u := formUpdate(form)
	u.OddsAnalysis = &registry.OddsAnalysis{IsGoodValue: verdict.IsGoodValue, Analysis: verdict.Analysis}
	u.Status = &next
	if !s.reg.Patch(id, u) {
		return registry.Match{}, ErrMatchNotFound
	}
	s.persistMatchesLocked()

	out, _ := s.reg.Get(id)
	return out, nil
}

func formUpdate(form analysis.FormVerdict) registry.Update {
	return registry.Update{
		AvgXG:             &form.AvgXG,
		AvgXGA:            &form.AvgXGA,
		RecentOver25Count: &form.RecentOver25Count,
		AIAnalysis:        &registry.FormAnalysis{IsGoodCandidate: form.IsGoodCandidate, Analysis: form.Analysis},
	}
}

// SuggestSlip pede ao colaborador o melhor subconjunto da seleção
// final e substitui o combiné inteiro pelo retorno. Ids que não estão
// mais na seleção final são ignorados; se nenhum sobrar, o slip fica
// como estava.
func (s *Session) SuggestSlip(ctx context.Context) (analysis.SlipSuggestion, error) {
	s.mu.Lock()
	if s.suggesting {
		s.mu.Unlock()
		return analysis.SlipSuggestion{}, ErrSuggestionInFlight
	}
	finalists := s.reg.ByStatus(registry.StatusFinalSelection)
	if len(finalists) < 2 {
		s.mu.Unlock()
		return analysis.SlipSuggestion{}, ErrNotEnoughFinalists
	}
	s.suggesting = true
	s.mu.Unlock()

	suggestion, err := s.ai.SuggestSlip(ctx, finalists)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggesting = false
	if err != nil {
		return analysis.SlipSuggestion{}, fmt.Errorf("slip suggestion: %w", err)
	}

	// filtra contra a seleção final atual, não contra a enviada
	current := make(map[string]bool)
	for _, m := range s.reg.ByStatus(registry.StatusFinalSelection) {
		current[m.ID] = true
	}
	var kept []string
	for _, id := range suggestion.SelectedMatchIDs {
		if current[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) > 0 {
		s.led.ReplaceSlip(kept)
	}
	suggestion.SelectedMatchIDs = kept
	return suggestion, nil
}

// AnalyzingMatchID expõe o marcador de análise em voo pra UI.
func (s *Session) AnalyzingMatchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzingID
}

// Flush grava o estado completo no store; chamado no teardown.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveMatches(ctx, s.reg.List()); err != nil {
		return fmt.Errorf("flush matches: %w", err)
	}
	if err := s.store.SaveBankroll(ctx, s.led.Bankroll()); err != nil {
		return fmt.Errorf("flush bankroll: %w", err)
	}
	if err := s.store.SaveBets(ctx, s.led.Bets()); err != nil {
		return fmt.Errorf("flush bet history: %w", err)
	}
	return nil
}

// As gravações pós-mutação são fire-and-forget: erro de persistência
// não falha a operação do usuário, só gera log.

func (s *Session) persistMatchesLocked() {
	if err := s.store.SaveMatches(context.Background(), s.reg.List()); err != nil {
		s.log.Warn("persist matches", zap.Error(err))
	}
}

func (s *Session) persistBankrollLocked() {
	if err := s.store.SaveBankroll(context.Background(), s.led.Bankroll()); err != nil {
		s.log.Warn("persist bankroll", zap.Error(err))
	}
}

func (s *Session) persistBetsLocked() {
	if err := s.store.SaveBets(context.Background(), s.led.Bets()); err != nil {
		s.log.Warn("persist bet history", zap.Error(err))
	}
}
