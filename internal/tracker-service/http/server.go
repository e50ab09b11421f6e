package http

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/radieske/pari-flow/internal/tracker-service/dto"
	"github.com/radieske/pari-flow/internal/tracker-service/ledger"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
	"github.com/radieske/pari-flow/internal/tracker-service/session"
	"github.com/radieske/pari-flow/pkg/contracts/events"
)

// Publisher emite os eventos de aposta; a implementação Kafka fica em
// producer. Falha de publicação não falha a requisição.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Server é a camada de apresentação: valida entrada, aplica as regras
// que o core delega ao chamador (mise > 0, resultado conhecido) e
// traduz os erros do domínio em status HTTP.
type Server struct {
	log  *zap.Logger
	sess *session.Session
	publ Publisher
}

func NewServer(log *zap.Logger, s *session.Session, p Publisher) *Server {
	return &Server{log: log, sess: s, publ: p}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/v1/state", s.getState)

	r.Post("/v1/matches", s.createMatch)
	r.Post("/v1/matches/generate", s.generateMatches)
	r.Delete("/v1/matches/{id}", s.deleteMatch)
	r.Put("/v1/matches/{id}/status", s.setStatus)
	r.Post("/v1/matches/{id}/analyze", s.analyzeMatch)

	r.Post("/v1/slip/toggle", s.toggleSlip)
	r.Post("/v1/slip/suggest", s.suggestSlip)

	r.Post("/v1/bets", s.placeBet)
	r.Post("/v1/bets/{id}/settle", s.settleBet)

	r.Put("/v1/bankroll", s.setBankroll)

	// front roda em outra origem (dev server)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st := s.sess.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse(st, s.sess.AnalyzingMatchID()))
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.TeamA == "" || req.TeamB == "" || req.League == "" || req.MatchDate == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	m := s.sess.CreateMatch(req.Fields)
	writeJSON(w, http.StatusCreated, dto.MatchResponse{Match: m})
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	s.sess.DeleteMatch(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	st := registry.Status(req.Status)
	if !st.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	id := chi.URLParam(r, "id")
	// archived é terminal: o board não oferece drag de volta
	if m, ok := s.sess.GetMatch(id); ok && m.Status == registry.StatusArchived {
		writeError(w, http.StatusConflict, "match is archived")
		return
	}
	if !s.sess.SetMatchStatus(id, st) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	m, _ := s.sess.GetMatch(id)
	writeJSON(w, http.StatusOK, dto.MatchResponse{Match: m})
}

func (s *Server) analyzeMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.sess.AnalyzeMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "full analysis")
		return
	}
	writeJSON(w, http.StatusOK, dto.MatchResponse{Match: m})
}

func (s *Server) generateMatches(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateMatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "date required")
		return
	}

	created, err := s.sess.GenerateMatches(r.Context(), req.Date)
	if err != nil {
		s.writeDomainError(w, err, "generate matches")
		return
	}
	writeJSON(w, http.StatusCreated, dto.GenerateMatchesResponse{Created: created})
}

func (s *Server) toggleSlip(w http.ResponseWriter, r *http.Request) {
	var req dto.ToggleSlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.MatchID == "" {
		writeError(w, http.StatusBadRequest, "matchId required")
		return
	}
	// arquivado não volta pro combiné
	if m, ok := s.sess.GetMatch(req.MatchID); ok && m.Status == registry.StatusArchived {
		writeError(w, http.StatusConflict, "match is archived")
		return
	}

	if err := s.sess.ToggleSlip(req.MatchID); err != nil {
		s.writeDomainError(w, err, "toggle slip")
		return
	}
	st := s.sess.Snapshot()
	writeJSON(w, http.StatusOK, slipView(st))
}

func (s *Server) suggestSlip(w http.ResponseWriter, r *http.Request) {
	suggestion, err := s.sess.SuggestSlip(r.Context())
	if err != nil {
		s.writeDomainError(w, err, "suggest slip")
		return
	}
	writeJSON(w, http.StatusOK, dto.SuggestSlipResponse{
		MatchIDs:      suggestion.SelectedMatchIDs,
		Justification: suggestion.Justification,
	})
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Stake <= 0 {
		writeError(w, http.StatusBadRequest, "stake must be positive")
		return
	}

	bet, err := s.sess.PlaceBet(req.Stake)
	if err != nil {
		s.writeDomainError(w, err, "place bet")
		return
	}

	matchIDs := make([]string, len(bet.Matches))
	for i, m := range bet.Matches {
		matchIDs[i] = m.ID
	}
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:     bet.ID,
		MatchIDs:  matchIDs,
		Stake:     bet.Stake,
		TotalOdds: bet.TotalOdds,
	}); err != nil {
		s.log.Warn("publish bet_placed", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		Bet:         bet,
		NewBankroll: s.sess.Snapshot().Bankroll,
	})
}

func (s *Server) settleBet(w http.ResponseWriter, r *http.Request) {
	var req dto.SettleBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	res := ledger.Result(req.Result)
	if !res.Valid() {
		writeError(w, http.StatusBadRequest, "result must be won or lost")
		return
	}

	bet, applied := s.sess.SettleBet(chi.URLParam(r, "id"), res)
	if !applied {
		// desconhecido ou já liquidado: contrato diz no-op
		writeJSON(w, http.StatusOK, dto.SettleBetResponse{NewBankroll: s.sess.Snapshot().Bankroll})
		return
	}

	payout := 0.0
	if res == ledger.ResultWon {
		payout = bet.Payout()
	}
	if err := s.publ.PublishBetSettled(r.Context(), events.BetSettled{
		BetID:  bet.ID,
		Result: string(res),
		Payout: payout,
	}); err != nil {
		s.log.Warn("publish bet_settled", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, dto.SettleBetResponse{
		Bet:         bet,
		NewBankroll: s.sess.Snapshot().Bankroll,
	})
}

func (s *Server) setBankroll(w http.ResponseWriter, r *http.Request) {
	var req dto.SetBankrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	s.sess.SetBankroll(req.Bankroll)
	writeJSON(w, http.StatusOK, map[string]float64{"bankroll": req.Bankroll})
}

// writeDomainError traduz os erros do core em status HTTP; qualquer
// erro não mapeado é tratado como falha do colaborador e vira um aviso
// genérico (o usuário pode tentar de novo).
func (s *Server) writeDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, session.ErrMatchNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ledger.ErrInvalidComposition):
		writeError(w, http.StatusUnprocessableEntity, "slip must have 2-3 matches and total odds <= 2.5")
	case errors.Is(err, ledger.ErrInsufficientBankroll):
		writeError(w, http.StatusConflict, "stake exceeds bankroll")
	case errors.Is(err, session.ErrNotEnoughFinalists):
		writeError(w, http.StatusUnprocessableEntity, "at least 2 final selection matches are required")
	case errors.Is(err, session.ErrAnalysisInFlight),
		errors.Is(err, session.ErrGenerationInFlight),
		errors.Is(err, session.ErrSuggestionInFlight):
		writeError(w, http.StatusConflict, "request already in flight")
	default:
		s.log.Error(op, zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis service failed; try again")
	}
}

func stateResponse(st session.State, analyzingID string) dto.StateResponse {
	return dto.StateResponse{
		Matches:  st.Matches,
		Slip:     slipView(st),
		Bankroll: st.Bankroll,
		History:  st.History,
		StakePresets: []dto.StakePreset{
			{Percent: 5, Amount: roundCents(st.Bankroll * 0.05)},
			{Percent: 10, Amount: roundCents(st.Bankroll * 0.10)},
		},
		AnalyzingID: analyzingID,
	}
}

func slipView(st session.State) dto.SlipView {
	return dto.SlipView{MatchIDs: st.Slip, TotalOdds: st.TotalOdds, Placeable: st.Placeable}
}

// arredondamento só de exibição; o core não arredonda
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
