// Package analysis concentra as quatro chamadas ao colaborador
// generativo (Gemini): geração de matchs, análise de forma, análise de
// cotas e sugestão de combiné. Cada chamada envia uma instrução em
// linguagem natural mais um schema de saída estrito e espera um único
// valor JSON conforme o schema; qualquer violação vira erro genérico e
// o estado que disparou a chamada fica intacto.
package analysis

import (
	"context"

	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// FormVerdict é a resposta do analisador de forma.
type FormVerdict struct {
	IsGoodCandidate   bool
	Analysis          string
	AvgXG             float64
	AvgXGA            float64
	RecentOver25Count int
}

// OddsVerdict é a resposta do analisador de cotas.
type OddsVerdict struct {
	IsGoodValue bool
	Analysis    string
}

// SlipSuggestion é a resposta do sugeridor de combiné.
type SlipSuggestion struct {
	SelectedMatchIDs []string
	Justification    string
}

// Service é o contrato consumido pela session. O client Gemini
// implementa; os testes usam stubs.
type Service interface {
	GenerateMatches(ctx context.Context, date string) ([]registry.Fields, error)
	AnalyzeForm(ctx context.Context, m registry.Match) (FormVerdict, error)
	AnalyzeOdds(ctx context.Context, m registry.Match) (OddsVerdict, error)
	SuggestSlip(ctx context.Context, candidates []registry.Match) (SlipSuggestion, error)
}
