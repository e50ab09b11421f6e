package registry

// Status é a etapa do pipeline em que um match se encontra.
type Status string

const (
	StatusShortlist      Status = "shortlist"
	StatusFormCheck      Status = "form_check"
	StatusOddsCheck      Status = "odds_check"
	StatusFinalSelection Status = "final_selection"
	StatusArchived       Status = "archived"
)

// Valid reporta se o valor é um dos cinco estágios conhecidos.
func (s Status) Valid() bool {
	switch s {
	case StatusShortlist, StatusFormCheck, StatusOddsCheck, StatusFinalSelection, StatusArchived:
		return true
	}
	return false
}

// FormAnalysis é o veredito do analisador de forma (preenchido só pela IA).
type FormAnalysis struct {
	IsGoodCandidate bool   `json:"isGoodCandidate"`
	Analysis        string `json:"analysis"`
}

// OddsAnalysis é o veredito do analisador de cotas (preenchido só pela IA).
type OddsAnalysis struct {
	IsGoodValue bool   `json:"isGoodValue"`
	Analysis    string `json:"analysis"`
}

// Match é um candidato a combiné. As tags json preservam o layout
// persistido da primeira versão do app.
type Match struct {
	ID                string        `json:"id"`
	MatchDate         string        `json:"matchDate"`
	TeamA             string        `json:"teamA"`
	TeamB             string        `json:"teamB"`
	League            string        `json:"league"`
	Over25Probability float64       `json:"over25Probability"` // 0-100
	AvgGoals          float64       `json:"avgGoals"`
	BTTSProbability   float64       `json:"bttsProbability"` // 0-100
	AvgXG             float64       `json:"avgXG"`
	AvgXGA            float64       `json:"avgXGA"`
	RecentOver25Count int           `json:"recentOver25Count"` // 0-5
	Odds              float64       `json:"odds"`              // decimal, > 1.0
	Status            Status        `json:"status"`
	AIAnalysis        *FormAnalysis `json:"aiAnalysis,omitempty"`
	OddsAnalysis      *OddsAnalysis `json:"oddsAnalysis,omitempty"`
}

// Clone devolve uma cópia profunda (as anotações são ponteiros).
func (m Match) Clone() Match {
	c := m
	if m.AIAnalysis != nil {
		a := *m.AIAnalysis
		c.AIAnalysis = &a
	}
	if m.OddsAnalysis != nil {
		o := *m.OddsAnalysis
		c.OddsAnalysis = &o
	}
	return c
}

// Fields são os campos de criação de um match (sem id nem status).
type Fields struct {
	MatchDate         string  `json:"matchDate"`
	TeamA             string  `json:"teamA"`
	TeamB             string  `json:"teamB"`
	League            string  `json:"league"`
	Over25Probability float64 `json:"over25Probability"`
	AvgGoals          float64 `json:"avgGoals"`
	BTTSProbability   float64 `json:"bttsProbability"`
	AvgXG             float64 `json:"avgXG"`
	AvgXGA            float64 `json:"avgXGA"`
	RecentOver25Count int     `json:"recentOver25Count"`
	Odds              float64 `json:"odds"`
}

// Update é um patch parcial: só os ponteiros não-nulos são aplicados.
// Status entra no merge apenas quando explicitamente incluído.
type Update struct {
	MatchDate         *string
	TeamA             *string
	TeamB             *string
	League            *string
	Over25Probability *float64
	AvgGoals          *float64
	BTTSProbability   *float64
	AvgXG             *float64
	AvgXGA            *float64
	RecentOver25Count *int
	Odds              *float64
	Status            *Status
	AIAnalysis        *FormAnalysis
	OddsAnalysis      *OddsAnalysis
}
