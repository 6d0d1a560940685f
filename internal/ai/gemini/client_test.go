package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/gitrecruiter/internal/failure"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	model  string
	config *genai.GenerateContentConfig
	texts  []string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	for _, c := range contents {
		for _, p := range c.Parts {
			f.texts = append(f.texts, p.Text)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	for _, key := range []string{"", "   "} {
		g, err := NewGenerator(context.Background(), key, "", zap.NewNop())
		if g != nil {
			t.Fatalf("expected no generator for key %q", key)
		}
		if !errors.Is(err, failure.ErrMissingCredential) {
			t.Fatalf("expected missing credential error, got %v", err)
		}
	}
}

func TestGenerateJSONSendsSchema(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"grade":`, ` "A"}`)}
	g := &Generator{models: models, modelName: "gemini-test", logger: zap.NewNop()}

	schema := responseSchema()
	out, err := g.GenerateJSON(context.Background(), "  grade me  ", schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != `{"grade": "A"}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if models.calls != 1 {
		t.Fatalf("expected single call, got %d", models.calls)
	}
	if models.model != "gemini-test" {
		t.Fatalf("unexpected model: %s", models.model)
	}
	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json mime type in config: %+v", models.config)
	}
	if models.config.ResponseSchema != schema {
		t.Fatalf("expected response schema to be passed through")
	}
	if len(models.texts) != 1 || models.texts[0] != "grade me" {
		t.Fatalf("unexpected prompt parts: %q", models.texts)
	}
}

func TestGenerateJSONEmpty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "blank text", resp: textResponse("  ", "\n")},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Generator{models: &fakeModels{resp: tt.resp}, modelName: "m", logger: zap.NewNop()}
			_, err := g.GenerateJSON(context.Background(), "prompt", nil)
			if !errors.Is(err, ErrEmptyResponse) {
				t.Fatalf("expected ErrEmptyResponse, got %v", err)
			}
		})
	}
}

func TestGenerateJSONDoesNotRetry(t *testing.T) {
	models := &fakeModels{err: genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}}
	g := &Generator{models: models, modelName: "m", logger: zap.NewNop()}

	_, err := g.GenerateJSON(context.Background(), "prompt", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if models.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", models.calls)
	}
}

func TestGenerateJSONRejectsEmptyPrompt(t *testing.T) {
	models := &fakeModels{}
	g := &Generator{models: models, modelName: "m", logger: zap.NewNop()}

	if _, err := g.GenerateJSON(context.Background(), " \n ", nil); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if models.calls != 0 {
		t.Fatalf("expected no calls, got %d", models.calls)
	}
}

func TestResponseSchemaRequiresAllMetrics(t *testing.T) {
	schema := responseSchema()

	metrics := schema.Properties["metrics"]
	if metrics == nil {
		t.Fatal("metrics property missing")
	}
	if len(metrics.Required) != 6 {
		t.Fatalf("expected 6 required metrics, got %v", metrics.Required)
	}
	for _, name := range metrics.Required {
		if metrics.Properties[name] == nil {
			t.Fatalf("required metric %s has no property", name)
		}
	}

	grade := schema.Properties["grade"]
	if len(grade.Enum) != 6 || grade.Enum[0] != "S" || grade.Enum[5] != "F" {
		t.Fatalf("unexpected grade enum: %v", grade.Enum)
	}

	rec := schema.Properties["recommendations"].Items
	if got := rec.Properties["priority"].Enum; len(got) != 3 {
		t.Fatalf("unexpected priority enum: %v", got)
	}
	impact := rec.Properties["categoryImpacts"].Items
	if len(impact.Properties["category"].Enum) != 6 {
		t.Fatalf("impact category must be limited to metric names: %v", impact.Properties["category"].Enum)
	}
}
