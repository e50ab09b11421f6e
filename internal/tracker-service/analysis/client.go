package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/radieske/pari-flow/internal/shared/metrics"
	"github.com/radieske/pari-flow/internal/tracker-service/registry"
)

// Client fala com a API Gemini. Uma chamada por requisição do usuário,
// sem retry: o usuário sempre pode tentar de novo.
type Client struct {
	log    *zap.Logger
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{log: log, client: c, model: model}, nil
}

// generate executa uma chamada com saída JSON estruturada e devolve o
// payload bruto pra camada de parse.
func (c *Client) generate(ctx context.Context, kind, prompt string, schema *genai.Schema) ([]byte, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		metrics.CollaboratorCalls.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("gemini %s: %w", kind, err)
	}

	text := resp.Text()
	if text == "" {
		metrics.CollaboratorCalls.WithLabelValues(kind, "error").Inc()
		return nil, fmt.Errorf("gemini %s: empty completion", kind)
	}

	metrics.CollaboratorCalls.WithLabelValues(kind, "ok").Inc()
	c.log.Debug("gemini call completed", zap.String("kind", kind), zap.Int("response_len", len(text)))
	return []byte(text), nil
}

// GenerateMatches pede 4 candidatos pra data alvo, já dentro dos
// limiares da estratégia over 2.5.
func (c *Client) GenerateMatches(ctx context.Context, date string) ([]registry.Fields, error) {
	raw, err := c.generate(ctx, "generate_matches", generatePrompt(date), generateSchema())
	if err != nil {
		return nil, err
	}
	return parseGeneratedMatches(raw)
}

// AnalyzeForm verifica a forma recente das equipes do match.
func (c *Client) AnalyzeForm(ctx context.Context, m registry.Match) (FormVerdict, error) {
	raw, err := c.generate(ctx, "analyze_form", formPrompt(m), formSchema())
	if err != nil {
		return FormVerdict{}, err
	}
	return parseFormVerdict(raw)
}

// AnalyzeOdds controla se a cota over 2.5 do match tem value.
func (c *Client) AnalyzeOdds(ctx context.Context, m registry.Match) (OddsVerdict, error) {
	raw, err := c.generate(ctx, "analyze_odds", oddsPrompt(m), oddsSchema())
	if err != nil {
		return OddsVerdict{}, err
	}
	return parseOddsVerdict(raw)
}

// SuggestSlip escolhe o melhor subconjunto da seleção final.
func (c *Client) SuggestSlip(ctx context.Context, candidates []registry.Match) (SlipSuggestion, error) {
	prompt, err := suggestPrompt(candidates)
	if err != nil {
		return SlipSuggestion{}, err
	}
	raw, err := c.generate(ctx, "suggest_slip", prompt, suggestSchema())
	if err != nil {
		return SlipSuggestion{}, err
	}
	return parseSlipSuggestion(raw)
}
