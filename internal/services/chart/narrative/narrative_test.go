package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/louisbranch/ziwei/internal/services/chart/domain/ziwei"
	"github.com/louisbranch/ziwei/internal/services/chart/render"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	prompt   string
	system   string
	requests int
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.requests++
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if cfg != nil && cfg.SystemInstruction != nil && len(cfg.SystemInstruction.Parts) > 0 {
		f.system = cfg.SystemInstruction.Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func testChart(t *testing.T) ziwei.ChartData {
	t.Helper()
	chart, err := ziwei.CalculateChart(ziwei.BirthInput{Year: 1990, Month: 6, Day: 15, Hour: 14, Sex: ziwei.SexMale})
	if err != nil {
		t.Fatalf("calculate chart: %v", err)
	}
	return chart
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestPromptListsChart(t *testing.T) {
	t.Parallel()

	prompt := Prompt(testRenderer(t), testChart(t), "zh-TW")
	for _, want := range []string{
		"農曆：庚午年五月廿三日 未時",
		"五行局：土五局",
		"丁亥 命宮［命］（5-14）：巨門旺、文曲旺",
		"命宮、財帛、官祿",
		"請以繁體中文回答",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Count(prompt, "\n- ") != 12 {
		t.Fatalf("prompt should list 12 palaces:\n%s", prompt)
	}

	english := Prompt(testRenderer(t), testChart(t), "en-US")
	if !strings.Contains(english, "Answer in English.") {
		t.Fatalf("english prompt missing language instruction:\n%s", english)
	}
}

func TestGeminiInterpret(t *testing.T) {
	t.Parallel()

	models := &fakeModels{text: "  A steady life palace.  "}
	narrator := newGemini(models, "test-model", testRenderer(t))
	text, err := narrator.Interpret(context.Background(), testChart(t), "en-US")
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if text != "A steady life palace." {
		t.Fatalf("text = %q", text)
	}
	if models.model != "test-model" || models.requests != 1 {
		t.Fatalf("model %q requests %d", models.model, models.requests)
	}
	if models.system != SystemInstruction {
		t.Fatalf("system instruction = %q", models.system)
	}
	if !strings.Contains(models.prompt, "紫微旺") {
		t.Fatalf("prompt = %q", models.prompt)
	}
}

func TestGeminiInterpretUnavailable(t *testing.T) {
	t.Parallel()

	tcs := map[string]*fakeModels{
		"api error":  {err: errors.New("quota exceeded")},
		"empty text": {text: "   "},
	}
	for name, models := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			narrator := newGemini(models, DefaultModel, testRenderer(t))
			if _, err := narrator.Interpret(context.Background(), testChart(t), "zh-TW"); !errors.Is(err, ErrUnavailable) {
				t.Fatalf("error = %v, want %v", err, ErrUnavailable)
			}
		})
	}
}

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	t.Parallel()

	narrator, err := New(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := narrator.(Disabled); !ok {
		t.Fatalf("narrator = %T, want Disabled", narrator)
	}
	if _, err := narrator.Interpret(context.Background(), testChart(t), ""); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want %v", err, ErrUnavailable)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ZIWEI_GEMINI_API_KEY", " key ")
	t.Setenv("ZIWEI_NARRATIVE_MODEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIKey != "key" || cfg.Model != DefaultModel {
		t.Fatalf("config = %+v", cfg)
	}
}
