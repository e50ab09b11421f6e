package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Coletores de domínio do tracker, expostos via /metrics.
var (
	MatchesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pariflow_matches_created_total",
		Help: "Matches criados no registry (manual ou gerados por IA).",
	})

	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pariflow_bets_placed_total",
		Help: "Combinés colocados com sucesso.",
	})

	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pariflow_bets_settled_total",
		Help: "Apostas liquidadas, por resultado.",
	}, []string{"result"})

	CollaboratorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pariflow_collaborator_calls_total",
		Help: "Chamadas ao colaborador generativo, por tipo e desfecho.",
	}, []string{"kind", "outcome"})

	BankrollBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pariflow_bankroll_balance",
		Help: "Saldo atual da banca.",
	})
)
