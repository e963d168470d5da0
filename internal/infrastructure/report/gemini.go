package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

const DefaultModel = "gemini-2.5-flash"

// contentModels is the part of genai.Models the generator calls.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator produces reports with the Gemini API.
type GeminiGenerator struct {
	models contentModels
	model  string
	log    zerolog.Logger
}

var _ ports.ReportGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator builds a client for the Gemini developer API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, log zerolog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newGeminiGenerator(client.Models, model, log), nil
}

func newGeminiGenerator(models contentModels, model string, log zerolog.Logger) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{models: models, model: model, log: log}
}

func (g *GeminiGenerator) Generate(ctx context.Context, snap domain.Snapshot) (string, error) {
	prompt, err := BuildPrompt(snap)
	if err != nil {
		return "", err
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	g.log.Debug().Str("model", g.model).Int("chars", len(text)).Msg("report generated")
	return text, nil
}
