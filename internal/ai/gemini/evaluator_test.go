package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/spigell/gitrecruiter/internal/ai"
	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/failure"
)

const validEvaluation = `{
  "grade": "A",
  "overallScore": 86,
  "metrics": {"documentation": 90, "activity": 80, "organization": 85, "engagement": 75, "depth": 92, "impact": 70},
  "summary": "Strong, well documented work.",
  "strengths": ["Thorough READMEs"],
  "weaknesses": ["Few stars"],
  "recommendations": [
    {"category": "Engagement", "title": "Share your work", "action": "Post a write-up.", "priority": "Medium", "overallGain": 4,
     "categoryImpacts": [{"category": "engagement", "gain": 15}]}
  ]
}`

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
	lastSchema *genai.Schema
	deadline   time.Time
}

func (s *stubGenerator) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastSchema = schema
	s.deadline, _ = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testRequest() *ai.Request {
	return &ai.Request{
		Handle:    "alice",
		Bio:       "",
		Followers: 12,
		Repositories: []ai.RepositoryDigest{
			{Name: "wonderland", Description: "tea", Stars: 3, Language: "Go", Updated: "2024-01-02T03:04:05Z"},
		},
	}
}

func TestEvaluatorEvaluate(t *testing.T) {
	stub := &stubGenerator{response: validEvaluation}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0, 0)

	result, err := evaluator.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Grade != evaluation.GradeA || result.OverallScore != 86 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Metrics.Depth != 92 {
		t.Fatalf("unexpected depth: %d", result.Metrics.Depth)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one call, got %d", stub.calls)
	}
	if stub.lastSchema == nil {
		t.Fatalf("expected response schema to be sent")
	}
	if stub.deadline.IsZero() {
		t.Fatalf("expected a bounded deadline on the generate call")
	}
}

func TestEvaluatorPrompt(t *testing.T) {
	stub := &stubGenerator{response: validEvaluation}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0, 0)

	if _, err := evaluator.Evaluate(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := stub.lastPrompt
	expected := []string{
		`"alice"`,
		"- Bio: None",
		"- Followers: 12",
		`[{"name":"wonderland","description":"tea","stars":3,"language":"Go","updated":"2024-01-02T03:04:05Z"}]`,
		"- Documentation: 25% (README presence, quality, setup guides)",
		"- Activity: 20% (Recency, consistency of commits)",
		"- Organization: 15% (Topic tags, licenses, clean repo naming)",
		"- Engagement: 15% (Stars, forks, social proof)",
		"- Depth: 15% (Tech stack variety, project complexity)",
		"- Impact: 10% (Utility of tools, popularity, unique value)",
	}
	for _, want := range expected {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt is missing %q:\n%s", want, prompt)
		}
	}

	if strings.Contains(prompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", prompt)
	}
}

func TestEvaluatorPromptWithNoRepositories(t *testing.T) {
	stub := &stubGenerator{response: validEvaluation}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0, 0)

	req := testRequest()
	req.Repositories = nil

	if _, err := evaluator.Evaluate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "forks excluded): []") {
		t.Fatalf("expected empty repository array in prompt:\n%s", stub.lastPrompt)
	}
}

func TestEvaluatorFailureKinds(t *testing.T) {
	missingMetric := strings.Replace(validEvaluation, `"depth": 92, `, "", 1)

	tests := []struct {
		name     string
		response string
		err      error
		want     error
	}{
		{name: "empty body", response: "", want: failure.ErrEmptyResponse},
		{name: "whitespace body", response: " \n\t", want: failure.ErrEmptyResponse},
		{name: "generator reports empty", err: ErrEmptyResponse, want: failure.ErrEmptyResponse},
		{name: "missing metric key", response: missingMetric, want: failure.ErrMalformedEvaluation},
		{name: "not json", response: "Sure! Here is the evaluation.", want: failure.ErrMalformedEvaluation},
		{name: "truncated json", response: validEvaluation[:120], want: failure.ErrMalformedEvaluation},
		{name: "api failure", err: errors.New("generate content: 503"), want: failure.ErrEvaluationUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: failure.ErrEvaluationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubGenerator{response: tt.response, err: tt.err}
			evaluator := NewEvaluator(stub, zap.NewNop(), 0, 0)

			result, err := evaluator.Evaluate(context.Background(), testRequest())
			if result != nil {
				t.Fatalf("expected no partial result, got %+v", result)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if stub.calls != 1 {
				t.Fatalf("expected exactly one generate call, got %d", stub.calls)
			}
		})
	}
}

func TestEvaluatorMalformedMessageDoesNotLeakParseError(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{response: `{"grade": "A"}`}
	evaluator := NewEvaluator(stub, zap.New(core), 0, 0)

	_, err := evaluator.Evaluate(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected error")
	}

	if err.Error() != failure.Message(failure.KindMalformedEvaluation) {
		t.Fatalf("expected generic audit message, got %q", err.Error())
	}

	entries := observed.FilterMessage("gemini response rejected").All()
	if len(entries) != 1 {
		t.Fatalf("expected diagnostic log entry, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Fatalf("expected raw error in diagnostic log")
	}
}

func TestExtractJSONHandlesCodeBlock(t *testing.T) {
	raw := "```json\n" + validEvaluation + "\n```"
	if got := extractJSON(raw); got != strings.TrimSpace(validEvaluation) {
		t.Fatalf("unexpected extraction: %q", got)
	}

	stub := &stubGenerator{response: raw}
	if _, err := NewEvaluator(stub, zap.NewNop(), 0, 0).Evaluate(context.Background(), testRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvaluateRequiresRequest(t *testing.T) {
	stub := &stubGenerator{response: validEvaluation}
	if _, err := NewEvaluator(stub, zap.NewNop(), 0, 0).Evaluate(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
	if stub.calls != 0 {
		t.Fatalf("expected no generate call, got %d", stub.calls)
	}
}
