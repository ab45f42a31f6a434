package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/louisbranch/ziwei/internal/platform/config"
	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Config selects the Gemini model. An empty APIKey disables narration.
type Config struct {
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"NARRATIVE_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig reads narrator configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg, nil
}

// contentGenerator is the slice of the genai Models API the narrator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini interprets charts with Google Gemini.
type Gemini struct {
	models   contentGenerator
	model    string
	renderer *render.Renderer
}

// New returns a Gemini narrator, or Disabled when cfg has no API key.
func New(ctx context.Context, cfg Config, renderer *render.Renderer) (Narrator, error) {
	if cfg.APIKey == "" {
		return Disabled{}, nil
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return newGemini(client.Models, model, renderer), nil
}

func newGemini(models contentGenerator, model string, renderer *render.Renderer) *Gemini {
	return &Gemini{models: models, model: model, renderer: renderer}
}

// Interpret sends the chart prompt and returns the model's text.
func (g *Gemini) Interpret(ctx context.Context, chart ziwei.ChartData, locale string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(Prompt(g.renderer, chart, locale), genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", ErrUnavailable, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrUnavailable)
	}
	return text, nil
}
