package registry

import "github.com/google/uuid"

// Registry guarda os matches em ordem de inserção.
// Não é seguro pra uso concorrente: a session serializa o acesso.
type Registry struct {
	order []string
	byID  map[string]*Match
}

func New() *Registry {
	return &Registry{byID: make(map[string]*Match)}
}

// Load substitui o conteúdo pelo estado reidratado do store.
// Ids duplicados são descartados, preservando a primeira ocorrência.
func (r *Registry) Load(matches []Match) {
	r.order = r.order[:0]
	r.byID = make(map[string]*Match, len(matches))
	for _, m := range matches {
		if _, exists := r.byID[m.ID]; exists {
			continue
		}
		c := m.Clone()
		r.byID[c.ID] = &c
		r.order = append(r.order, c.ID)
	}
}

// Create registra um novo match com id fresco e status shortlist. Nunca falha.
func (r *Registry) Create(f Fields) Match {
	m := Match{
		ID:                "match-" + uuid.NewString(),
		MatchDate:         f.MatchDate,
		TeamA:             f.TeamA,
		TeamB:             f.TeamB,
		League:            f.League,
		Over25Probability: f.Over25Probability,
		AvgGoals:          f.AvgGoals,
		BTTSProbability:   f.BTTSProbability,
		AvgXG:             f.AvgXG,
		AvgXGA:            f.AvgXGA,
		RecentOver25Count: f.RecentOver25Count,
		Odds:              f.Odds,
		Status:            StatusShortlist,
	}
	r.byID[m.ID] = &m
	r.order = append(r.order, m.ID)
	return m.Clone()
}

// Delete remove o match; no-op se o id não existe.
func (r *Registry) Delete(id string) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// SetStatus sobrescreve o status sem guarda de ordenação: o drag pode
// pular etapas. No-op se o id não existe.
func (r *Registry) SetStatus(id string, st Status) bool {
	m, ok := r.byID[id]
	if !ok {
		return false
	}
	m.Status = st
	return true
}

// Patch aplica um merge parcial; no-op se o id não existe.
func (r *Registry) Patch(id string, u Update) bool {
	m, ok := r.byID[id]
	if !ok {
		return false
	}
	if u.MatchDate != nil {
		m.MatchDate = *u.MatchDate
	}
	if u.TeamA != nil {
		m.TeamA = *u.TeamA
	}
	if u.TeamB != nil {
		m.TeamB = *u.TeamB
	}
	if u.League != nil {
		m.League = *u.League
	}
	if u.Over25Probability != nil {
		m.Over25Probability = *u.Over25Probability
	}
	if u.AvgGoals != nil {
		m.AvgGoals = *u.AvgGoals
	}
	if u.BTTSProbability != nil {
		m.BTTSProbability = *u.BTTSProbability
	}
	if u.AvgXG != nil {
		m.AvgXG = *u.AvgXG
	}
	if u.AvgXGA != nil {
		m.AvgXGA = *u.AvgXGA
	}
	if u.RecentOver25Count != nil {
		m.RecentOver25Count = *u.RecentOver25Count
	}
	if u.Odds != nil {
		m.Odds = *u.Odds
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
	if u.AIAnalysis != nil {
		a := *u.AIAnalysis
		m.AIAnalysis = &a
	}
	if u.OddsAnalysis != nil {
		o := *u.OddsAnalysis
		m.OddsAnalysis = &o
	}
	return true
}

// Get devolve uma cópia do match.
func (r *Registry) Get(id string) (Match, bool) {
	m, ok := r.byID[id]
	if !ok {
		return Match{}, false
	}
	return m.Clone(), true
}

// List devolve cópias de todos os matches em ordem de inserção.
func (r *Registry) List() []Match {
	out := make([]Match, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out
}

// ByStatus filtra List() por estágio, preservando a ordem.
func (r *Registry) ByStatus(st Status) []Match {
	var out []Match
	for _, id := range r.order {
		if m := r.byID[id]; m.Status == st {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Len é o total de matches registrados.
func (r *Registry) Len() int { return len(r.order) }
