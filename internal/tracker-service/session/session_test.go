package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/pari-flow/internal/tracker-service/analysis"
	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
	"github.com/radieske/pari-flow/internal/tracker-service/store"
)

// stubAI implementa analysis.Service com respostas fixas e hooks pra
// simular o que acontece enquanto a chamada está em voo.
type stubAI struct {
	gen    []registry.Fields
	genErr error

	form    analysis.FormVerdict
	formErr error
	onForm  func()

	odds    analysis.OddsVerdict
	oddsErr error
	onOdds  func()

	sug    analysis.SlipSuggestion
	sugErr error
}

func (s *stubAI) GenerateMatches(context.Context, string) ([]registry.Fields, error) {
	return s.gen, s.genErr
}

func (s *stubAI) AnalyzeForm(context.Context, registry.Match) (analysis.FormVerdict, error) {
	if s.onForm != nil {
		s.onForm()
	}
	return s.form, s.formErr
}

func (s *stubAI) AnalyzeOdds(context.Context, registry.Match) (analysis.OddsVerdict, error) {
	if s.onOdds != nil {
		s.onOdds()
	}
	return s.odds, s.oddsErr
}

func (s *stubAI) SuggestSlip(context.Context, []registry.Match) (analysis.SlipSuggestion, error) {
	return s.sug, s.sugErr
}

func newTestSession(t *testing.T, ai *stubAI) (*Session, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	sess, err := New(context.Background(), st, ai, zap.NewNop())
	require.NoError(t, err)
	return sess, st
}

func fields(team string, odds float64) registry.Fields {
	return registry.Fields{
		MatchDate: "2025-10-01",
		TeamA:     team,
		TeamB:     team + " B",
		League:    "Ligue 1",
		AvgXG:     1.6,
		Odds:      odds,
	}
}

// prepara dois matches na seleção final e no slip, prontos pra apostar
func slipOfTwo(t *testing.T, sess *Session) (registry.Match, registry.Match) {
	t.Helper()
	a := sess.CreateMatch(fields("Dynamo", 1.50))
	b := sess.CreateMatch(fields("Strikers", 1.60))
	require.True(t, sess.SetMatchStatus(a.ID, registry.StatusFinalSelection))
	require.True(t, sess.SetMatchStatus(b.ID, registry.StatusFinalSelection))
	require.NoError(t, sess.ToggleSlip(a.ID))
	require.NoError(t, sess.ToggleSlip(b.ID))
	return a, b
}

func TestNew_SeedsDefaultsOnEmptyStore(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})

	st := sess.Snapshot()
	assert.Len(t, st.Matches, 3, "shortlist de exemplo")
	assert.Equal(t, float64(DefaultBankroll), st.Bankroll)
	assert.Empty(t, st.History)
	assert.Empty(t, st.Slip)
	for _, m := range st.Matches {
		assert.Equal(t, registry.StatusShortlist, m.Status)
	}
}

func TestNew_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SaveMatches(ctx, []registry.Match{{ID: "m1", TeamA: "A", TeamB: "B", League: "L", Odds: 1.5, Status: registry.StatusOddsCheck}}))
	require.NoError(t, st.SaveBankroll(ctx, 750.5))
	require.NoError(t, st.SaveBets(ctx, []ledger.Bet{{ID: "bet-1", Stake: 10, TotalOdds: 2.1, Result: ledger.ResultPending}}))

	sess, err := New(ctx, st, &stubAI{}, zap.NewNop())
	require.NoError(t, err)

	snap := sess.Snapshot()
	require.Len(t, snap.Matches, 1)
	assert.Equal(t, registry.StatusOddsCheck, snap.Matches[0].Status)
	assert.Equal(t, 750.5, snap.Bankroll)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "bet-1", snap.History[0].ID)
}

func TestNew_CorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	st.Corrupt(store.KeyMatches, []byte(`{not json`))
	require.NoError(t, st.SaveBankroll(ctx, 500))

	sess, err := New(ctx, st, &stubAI{}, zap.NewNop())
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.Len(t, snap.Matches, 3, "valor corrompido cai no seed")
	assert.Equal(t, 500.0, snap.Bankroll, "as demais chaves carregam normalmente")
}

func TestDeleteMatch_RemovesFromRegistryAndSlip(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	a, b := slipOfTwo(t, sess)

	sess.DeleteMatch(a.ID)

	snap := sess.Snapshot()
	assert.NotContains(t, snap.Slip, a.ID)
	assert.Contains(t, snap.Slip, b.ID)
	_, ok := sess.GetMatch(a.ID)
	assert.False(t, ok)

	// deletar de novo é no-op
	sess.DeleteMatch(a.ID)
}

func TestPlaceBet_FullFlow(t *testing.T) {
	sess, st := newTestSession(t, &stubAI{})
	a, b := slipOfTwo(t, sess)

	bet, err := sess.PlaceBet(20)
	require.NoError(t, err)

	assert.InDelta(t, 2.40, bet.TotalOdds, 1e-9)
	assert.Equal(t, ledger.ResultPending, bet.Result)

	snap := sess.Snapshot()
	assert.InDelta(t, float64(DefaultBankroll)-20, snap.Bankroll, 1e-9)
	assert.Empty(t, snap.Slip)
	require.Len(t, snap.History, 1)

	for _, id := range []string{a.ID, b.ID} {
		m, ok := sess.GetMatch(id)
		require.True(t, ok)
		assert.Equal(t, registry.StatusArchived, m.Status, "match do combiné arquivado")
	}

	// estado persistido após a mutação
	bets, ok, err := st.LoadBets(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, bets, 1)
	bankroll, ok, err := st.LoadBankroll(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 980, bankroll, 1e-9)
}

func TestPlaceBet_InvalidComposition(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	a := sess.CreateMatch(fields("Solo", 1.50))
	require.NoError(t, sess.ToggleSlip(a.ID))

	_, err := sess.PlaceBet(20)
	require.ErrorIs(t, err, ledger.ErrInvalidComposition, "slip de 1 match não coloca")

	snap := sess.Snapshot()
	assert.Equal(t, float64(DefaultBankroll), snap.Bankroll)
	assert.Empty(t, snap.History)
	assert.Equal(t, []string{a.ID}, snap.Slip)
}

func TestPlaceBet_OddsCeiling(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	a := sess.CreateMatch(fields("HighA", 1.70))
	b := sess.CreateMatch(fields("HighB", 1.70))
	require.NoError(t, sess.ToggleSlip(a.ID))
	require.NoError(t, sess.ToggleSlip(b.ID))

	// 1.70 × 1.70 = 2.89 > 2.5
	_, err := sess.PlaceBet(20)
	require.ErrorIs(t, err, ledger.ErrInvalidComposition)
}

func TestPlaceBet_InsufficientBankroll(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	slipOfTwo(t, sess)
	sess.SetBankroll(5)

	_, err := sess.PlaceBet(20)
	require.ErrorIs(t, err, ledger.ErrInsufficientBankroll)

	snap := sess.Snapshot()
	assert.Equal(t, 5.0, snap.Bankroll)
	assert.Empty(t, snap.History)
	assert.Len(t, snap.Slip, 2, "slip intacto na recusa")
}

func TestSettleBet_WonThenLostIsNoOp(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	slipOfTwo(t, sess)

	bet, err := sess.PlaceBet(20)
	require.NoError(t, err)

	settled, ok := sess.SettleBet(bet.ID, ledger.ResultWon)
	require.True(t, ok)
	assert.Equal(t, ledger.ResultWon, settled.Result)
	assert.InDelta(t, 980+48.0, sess.Snapshot().Bankroll, 1e-6)

	_, ok = sess.SettleBet(bet.ID, ledger.ResultLost)
	assert.False(t, ok)
	assert.InDelta(t, 1028, sess.Snapshot().Bankroll, 1e-6)

	_, ok = sess.SettleBet("missing", ledger.ResultWon)
	assert.False(t, ok)
}

func TestGenerateMatches_InsertsAll(t *testing.T) {
	ai := &stubAI{gen: []registry.Fields{fields("Gen1", 1.45), fields("Gen2", 1.55)}}
	sess, _ := newTestSession(t, ai)

	created, err := sess.GenerateMatches(context.Background(), "2025-10-01")
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, m := range created {
		assert.Equal(t, registry.StatusShortlist, m.Status)
	}
	assert.Len(t, sess.Snapshot().Matches, 5, "3 do seed + 2 gerados")
}

func TestGenerateMatches_FailureMutatesNothing(t *testing.T) {
	ai := &stubAI{genErr: assert.AnError}
	sess, _ := newTestSession(t, ai)

	_, err := sess.GenerateMatches(context.Background(), "2025-10-01")
	require.Error(t, err)
	assert.Len(t, sess.Snapshot().Matches, 3, "nenhuma inserção parcial")

	// flag limpa: a próxima tentativa não é rejeitada como em voo
	ai.genErr = nil
	ai.gen = []registry.Fields{fields("Gen", 1.5)}
	_, err = sess.GenerateMatches(context.Background(), "2025-10-01")
	require.NoError(t, err)
}

func TestAnalyzeMatch_NegativeFormKeepsStatus(t *testing.T) {
	ai := &stubAI{form: analysis.FormVerdict{
		IsGoodCandidate:   false,
		Analysis:          "forme insuffisante",
		AvgXG:             1.2,
		AvgXGA:            1.0,
		RecentOver25Count: 2,
	}}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))
	require.True(t, sess.SetMatchStatus(m.ID, registry.StatusFormCheck))

	got, err := sess.AnalyzeMatch(context.Background(), m.ID)
	require.NoError(t, err)

	assert.Equal(t, registry.StatusFormCheck, got.Status, "status fica onde estava")
	assert.Equal(t, 1.2, got.AvgXG, "stats revisadas aplicadas")
	assert.Equal(t, 2, got.RecentOver25Count)
	require.NotNil(t, got.AIAnalysis)
	assert.False(t, got.AIAnalysis.IsGoodCandidate)
	assert.Nil(t, got.OddsAnalysis, "análise de cotas nem foi pedida")
}

func TestAnalyzeMatch_PositiveFormGoodOdds(t *testing.T) {
	ai := &stubAI{
		form: analysis.FormVerdict{IsGoodCandidate: true, Analysis: "solide", AvgXG: 1.9, AvgXGA: 1.5, RecentOver25Count: 4},
		odds: analysis.OddsVerdict{IsGoodValue: true, Analysis: "dans la fourchette"},
	}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))

	got, err := sess.AnalyzeMatch(context.Background(), m.ID)
	require.NoError(t, err)

	assert.Equal(t, registry.StatusFinalSelection, got.Status)
	require.NotNil(t, got.AIAnalysis)
	require.NotNil(t, got.OddsAnalysis)
	assert.True(t, got.OddsAnalysis.IsGoodValue)
	assert.Equal(t, 1.9, got.AvgXG)
}

func TestAnalyzeMatch_PositiveFormBadOdds(t *testing.T) {
	ai := &stubAI{
		form: analysis.FormVerdict{IsGoodCandidate: true, Analysis: "solide", AvgXG: 1.9, AvgXGA: 1.5, RecentOver25Count: 4},
		odds: analysis.OddsVerdict{IsGoodValue: false, Analysis: "cote trop basse"},
	}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))

	got, err := sess.AnalyzeMatch(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusOddsCheck, got.Status)
}

func TestAnalyzeMatch_NotFound(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	_, err := sess.AnalyzeMatch(context.Background(), "missing")
	require.ErrorIs(t, err, ErrMatchNotFound)
}

func TestAnalyzeMatch_FailureClearsFlag(t *testing.T) {
	ai := &stubAI{formErr: assert.AnError}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))

	_, err := sess.AnalyzeMatch(context.Background(), m.ID)
	require.Error(t, err)
	assert.Empty(t, sess.AnalyzingMatchID())

	got, _ := sess.GetMatch(m.ID)
	assert.Nil(t, got.AIAnalysis, "falha não muta o match")

	ai.formErr = nil
	ai.form = analysis.FormVerdict{IsGoodCandidate: false, Analysis: "ok", AvgXG: 1, AvgXGA: 1, RecentOver25Count: 1}
	_, err = sess.AnalyzeMatch(context.Background(), m.ID)
	require.NoError(t, err, "retry depois da falha passa")
}

func TestAnalyzeMatch_OddsFailureMutatesNothing(t *testing.T) {
	ai := &stubAI{
		form:    analysis.FormVerdict{IsGoodCandidate: true, Analysis: "solide", AvgXG: 1.9, AvgXGA: 1.4, RecentOver25Count: 4},
		oddsErr: assert.AnError,
	}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))

	_, err := sess.AnalyzeMatch(context.Background(), m.ID)
	require.Error(t, err)
	assert.Empty(t, sess.AnalyzingMatchID())

	// forma positiva mas a segunda etapa falhou: o match fica intacto,
	// inclusive o patch de forma
	got, ok := sess.GetMatch(m.ID)
	require.True(t, ok)
	assert.Nil(t, got.AIAnalysis)
	assert.Nil(t, got.OddsAnalysis)
	assert.Equal(t, m.AvgXG, got.AvgXG)
	assert.Equal(t, m.Status, got.Status)

	ai.oddsErr = nil
	ai.odds = analysis.OddsVerdict{IsGoodValue: true, Analysis: "correcte"}
	got, err = sess.AnalyzeMatch(context.Background(), m.ID)
	require.NoError(t, err, "retry depois da falha passa")
	assert.Equal(t, registry.StatusFinalSelection, got.Status)
}

func TestAnalyzeMatch_SecondRequestRejectedWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ai := &stubAI{
		form: analysis.FormVerdict{IsGoodCandidate: false, Analysis: "ok", AvgXG: 1, AvgXGA: 1, RecentOver25Count: 1},
		onForm: func() {
			close(started)
			<-release
		},
	}
	sess, _ := newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))

	done := make(chan error, 1)
	go func() {
		_, err := sess.AnalyzeMatch(context.Background(), m.ID)
		done <- err
	}()

	<-started
	assert.Equal(t, m.ID, sess.AnalyzingMatchID())
	_, err := sess.AnalyzeMatch(context.Background(), m.ID)
	assert.ErrorIs(t, err, ErrAnalysisInFlight)

	// o board continua editável durante a espera
	other := sess.CreateMatch(fields("Other", 1.60))
	assert.True(t, sess.SetMatchStatus(other.ID, registry.StatusOddsCheck))

	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, sess.AnalyzingMatchID())
}

func TestAnalyzeMatch_DeletedWhileInFlight(t *testing.T) {
	var sess *Session
	var id string
	ai := &stubAI{
		form:   analysis.FormVerdict{IsGoodCandidate: false, Analysis: "ok", AvgXG: 1, AvgXGA: 1, RecentOver25Count: 1},
		onForm: func() { sess.DeleteMatch(id) },
	}
	sess, _ = newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))
	id = m.ID

	_, err := sess.AnalyzeMatch(context.Background(), id)
	require.ErrorIs(t, err, ErrMatchNotFound, "resultado sobre match deletado é descartado")

	_, ok := sess.GetMatch(id)
	assert.False(t, ok)
	assert.Empty(t, sess.AnalyzingMatchID())
}

func TestAnalyzeMatch_DeletedDuringOddsCall(t *testing.T) {
	var sess *Session
	var id string
	ai := &stubAI{
		form:   analysis.FormVerdict{IsGoodCandidate: true, Analysis: "solide", AvgXG: 1.9, AvgXGA: 1.4, RecentOver25Count: 4},
		odds:   analysis.OddsVerdict{IsGoodValue: true, Analysis: "correcte"},
		onOdds: func() { sess.DeleteMatch(id) },
	}
	sess, _ = newTestSession(t, ai)
	m := sess.CreateMatch(fields("Dynamo", 1.50))
	id = m.ID

	_, err := sess.AnalyzeMatch(context.Background(), id)
	require.ErrorIs(t, err, ErrMatchNotFound)
	assert.Empty(t, sess.AnalyzingMatchID())
}

func TestSuggestSlip_RequiresTwoFinalists(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	m := sess.CreateMatch(fields("Dynamo", 1.50))
	require.True(t, sess.SetMatchStatus(m.ID, registry.StatusFinalSelection))

	_, err := sess.SuggestSlip(context.Background())
	require.ErrorIs(t, err, ErrNotEnoughFinalists)
}

func TestSuggestSlip_ReplacesSlipWithFilteredIDs(t *testing.T) {
	ai := &stubAI{}
	sess, _ := newTestSession(t, ai)
	a := sess.CreateMatch(fields("Dynamo", 1.50))
	b := sess.CreateMatch(fields("Strikers", 1.60))
	require.True(t, sess.SetMatchStatus(a.ID, registry.StatusFinalSelection))
	require.True(t, sess.SetMatchStatus(b.ID, registry.StatusFinalSelection))

	// slip atual será substituído por inteiro
	require.NoError(t, sess.ToggleSlip(a.ID))

	ai.sug = analysis.SlipSuggestion{
		SelectedMatchIDs: []string{b.ID, "ghost-id"},
		Justification:    "stabilité",
	}
	got, err := sess.SuggestSlip(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{b.ID}, got.SelectedMatchIDs, "id desconhecido ignorado")
	assert.Equal(t, []string{b.ID}, sess.Snapshot().Slip)
}

func TestSuggestSlip_NoSurvivorsLeavesSlipUnchanged(t *testing.T) {
	ai := &stubAI{sug: analysis.SlipSuggestion{SelectedMatchIDs: []string{"ghost"}, Justification: "aucun"}}
	sess, _ := newTestSession(t, ai)
	a := sess.CreateMatch(fields("Dynamo", 1.50))
	b := sess.CreateMatch(fields("Strikers", 1.60))
	require.True(t, sess.SetMatchStatus(a.ID, registry.StatusFinalSelection))
	require.True(t, sess.SetMatchStatus(b.ID, registry.StatusFinalSelection))
	require.NoError(t, sess.ToggleSlip(a.ID))

	got, err := sess.SuggestSlip(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.SelectedMatchIDs)
	assert.Equal(t, []string{a.ID}, sess.Snapshot().Slip, "slip fica como estava")
}

func TestSetBankroll_Persists(t *testing.T) {
	sess, st := newTestSession(t, &stubAI{})

	sess.SetBankroll(250.75)
	assert.Equal(t, 250.75, sess.Snapshot().Bankroll)

	v, ok, err := st.LoadBankroll(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 250.75, v)
}

func TestSnapshot_SlipPlaceability(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})

	snap := sess.Snapshot()
	assert.Equal(t, 1.0, snap.TotalOdds, "produto vazio vale 1")
	assert.False(t, snap.Placeable)

	slipOfTwo(t, sess)
	snap = sess.Snapshot()
	assert.InDelta(t, 2.40, snap.TotalOdds, 1e-9)
	assert.True(t, snap.Placeable)
}

func TestFlush_WritesEverything(t *testing.T) {
	sess, _ := newTestSession(t, &stubAI{})
	slipOfTwo(t, sess)
	_, err := sess.PlaceBet(20)
	require.NoError(t, err)

	fresh := store.NewMemory()
	sess.store = fresh
	require.NoError(t, sess.Flush(context.Background()))

	_, ok, err := fresh.LoadMatches(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = fresh.LoadBets(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = fresh.LoadBankroll(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}
