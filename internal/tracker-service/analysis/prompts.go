package analysis

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Os prompts falam francês como o restante da interface do app.

func generatePrompt(date string) string {
	formatted := date
	if t, err := time.Parse("2006-01-02", date); err == nil {
		formatted = t.Format("2 January 2006")
	}
	return fmt.Sprintf(`Agis en tant qu'analyste de données sportives expert utilisant des outils comme FootyStats et SoccerStats pour le repérage. Ta mission est de trouver des matchs de football réels ou très réalistes pour la date du %s (%s). Ces matchs doivent être des candidats idéaux pour une stratégie de pari "Over 2.5 buts".

Respecte IMPÉRATIVEMENT les critères suivants pour chaque match trouvé :
- matchDate: La date du match. Doit être "%s".
- over25Probability: Pourcentage de matchs terminés à +2.5 buts. Doit être supérieur ou égal à 65.
- avgGoals: Moyenne de buts par match. Doit être supérieure ou égale à 2.7.
- bttsProbability: Pourcentage de matchs où les deux équipes marquent. Doit être supérieur ou égal à 60.
- league: Choisis des ligues principales et évite les divisions exotiques ou les ligues de réserve.
- odds: La cote pour l'over 2.5 doit être entre 1.40 et 1.70.
- avgXG, avgXGA, recentOver25Count: Génère des valeurs de base réalistes, elles seront affinées plus tard.

Retourne le résultat sous forme de tableau JSON de 4 matchs, en respectant le schéma fourni.`, formatted, date, date)
}

func generateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"matchDate":         {Type: genai.TypeString},
				"teamA":             {Type: genai.TypeString},
				"teamB":             {Type: genai.TypeString},
				"league":            {Type: genai.TypeString},
				"over25Probability": {Type: genai.TypeNumber},
				"avgGoals":          {Type: genai.TypeNumber},
				"bttsProbability":   {Type: genai.TypeNumber},
				"avgXG":             {Type: genai.TypeNumber},
				"avgXGA":            {Type: genai.TypeNumber},
				"recentOver25Count": {Type: genai.TypeNumber},
				"odds":              {Type: genai.TypeNumber},
			},
			Required: []string{
				"matchDate", "teamA", "teamB", "league", "over25Probability", "avgGoals",
				"bttsProbability", "avgXG", "avgXGA", "recentOver25Count", "odds",
			},
		},
	}
}

func formPrompt(m registry.Match) string {
	return fmt.Sprintf(`Agis en tant qu'analyste de données sportives expert, utilisant des outils comme FootballXG.com et FBref pour l'analyse de forme. Analyse le match suivant : %s vs %s en %s.
Ta mission est de vérifier la forme récente des équipes et de déterminer si le match est un candidat SOLIDE pour un pari "Over 2.5 buts". Pour être un bon candidat, les conditions suivantes doivent être remplies lors de ton analyse FICTIVE mais réaliste :
1. Occasions créées : L'avgXG (xG moyen) doit être supérieur à 1.5.
2. Défense perméable : L'avgXGA (xGA moyen) doit être supérieur à 1.2.
3. Forme récente : Au moins 4 des 5 derniers matchs doivent s'être terminés à +2.5 buts.
Retourne ta réponse en JSON en respectant le schéma.
- isGoodCandidate: true si les 3 conditions sont remplies, sinon false.
- analysis: Une phrase courte justifiant ta décision en te basant sur les xG, xGA et la forme.
- updatedStats: Un objet avec les valeurs affinées pour avgXG, avgXGA, et recentOver25Count qui confirment ton analyse.`,
		m.TeamA, m.TeamB, m.League)
}

func formSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isGoodCandidate": {Type: genai.TypeBoolean},
			"analysis":        {Type: genai.TypeString},
			"updatedStats": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"avgXG":             {Type: genai.TypeNumber},
					"avgXGA":            {Type: genai.TypeNumber},
					"recentOver25Count": {Type: genai.TypeNumber},
				},
				Required: []string{"avgXG", "avgXGA", "recentOver25Count"},
			},
		},
		Required: []string{"isGoodCandidate", "analysis", "updatedStats"},
	}
}

func oddsPrompt(m registry.Match) string {
	return fmt.Sprintf(`Agis comme un analyste expert du marché des paris sportifs, utilisant des outils comme OddsPortal et BetExplorer. Analyse la cote "Over 2.5 buts" pour le match %s vs %s, actuellement à %.2f.
Ta mission est de contrôler la cote et de déterminer si elle a une bonne "value". Pour ce faire, effectue une analyse FICTIVE mais réaliste :
1. Fourchette de cote : Vérifie que la cote de %.2f est bien dans la fourchette cible pour un combiné modéré (entre 1.40 et 1.70).
2. Mouvement du marché : Assure-toi qu'il n'y a pas de chute anormale de cote sur le pari inverse ("Under 2.5").
3. Comparaison : Confirme que la cote actuelle est compétitive entre bookmakers.
Retourne ta réponse en JSON en respectant le schéma.
- isGoodValue: true si la cote est dans la fourchette, sans mouvement suspect et compétitive. False sinon.
- analysis: Une phrase courte justifiant ta décision.`,
		m.TeamA, m.TeamB, m.Odds, m.Odds)
}

func oddsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isGoodValue": {Type: genai.TypeBoolean},
			"analysis":    {Type: genai.TypeString},
		},
		Required: []string{"isGoodValue", "analysis"},
	}
}

// suggestCandidate é a visão resumida enviada ao sugeridor.
type suggestCandidate struct {
	ID                string                 `json:"id"`
	TeamA             string                 `json:"teamA"`
	TeamB             string                 `json:"teamB"`
	Odds              float64                `json:"odds"`
	XG                float64                `json:"xG"`
	Over25Probability float64                `json:"over25Probability"`
	AIAnalysis        *registry.FormAnalysis `json:"aiAnalysis,omitempty"`
	OddsAnalysis      *registry.OddsAnalysis `json:"oddsAnalysis,omitempty"`
}

func suggestPrompt(candidates []registry.Match) (string, error) {
	views := make([]suggestCandidate, len(candidates))
	for i, m := range candidates {
		views[i] = suggestCandidate{
			ID:                m.ID,
			TeamA:             m.TeamA,
			TeamB:             m.TeamB,
			Odds:              m.Odds,
			XG:                m.AvgXG,
			Over25Probability: m.Over25Probability,
			AIAnalysis:        m.AIAnalysis,
			OddsAnalysis:      m.OddsAnalysis,
		}
	}
	payload, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	return fmt.Sprintf(`Agis comme un parieur professionnel stratège. Voici une liste de matchs ayant passé toutes les étapes de validation :
%s

Ta mission est de construire le combiné final. Suis ces règles d'or IMPÉRATIVES :
1. **Règle 1 (Composition) :** Le combiné doit contenir EXACTEMENT 2 ou 3 matchs.
2. **Règle 2 (Cote Totale) :** La cote finale (produit des cotes) doit être INFÉRIEURE OU ÉGALE à 2.5. C'est une limite stricte.
3. **Règle 3 (Stabilité) :** Privilégie les matchs les plus STABLES : meilleurs xG et pourcentages d'over 2.5 les plus élevés.
4. **Règle 4 (Validation IA) :** Tu ne peux utiliser QUE des matchs validés positivement pour la forme (aiAnalysis.isGoodCandidate: true) ET pour les cotes (oddsAnalysis.isGoodValue: true).

Choisis la meilleure combinaison possible et retourne ta réponse en JSON en respectant le schéma.
- selectedMatchIds: Un tableau contenant les IDs des matchs sélectionnés.
- justification: Une justification DÉTAILLÉE expliquant pourquoi ce combiné est le choix optimal.`, payload), nil
}

func suggestSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"selectedMatchIds": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"justification": {Type: genai.TypeString},
		},
		Required: []string{"selectedMatchIds", "justification"},
	}
}
