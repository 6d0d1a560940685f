package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/gitrecruiter/internal/ai"
	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/failure"
	"github.com/spigell/gitrecruiter/internal/utils"
)

type jsonGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultTimeout      = 2 * time.Minute
)

// Evaluator grades an ai.Request with Gemini and returns only fully validated results.
type Evaluator struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
	timeout   time.Duration
}

func NewEvaluator(generator jsonGenerator, logger *zap.Logger, maxLogLength int, timeout time.Duration) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Evaluator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		timeout:   timeout,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, req *ai.Request) (*evaluation.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("evaluation request is required")
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content request",
		zap.String("handle", req.Handle),
		zap.Int("repositories", len(req.Repositories)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.generator.GenerateJSON(ctx, prompt, responseSchema())
	if err != nil {
		if errors.Is(err, ErrEmptyResponse) {
			return nil, failure.New(failure.KindEmptyResponse, err)
		}
		return nil, failure.New(failure.KindEvaluationUnavailable, err)
	}

	e.logger.Debug("gemini generate content response",
		zap.String("handle", req.Handle),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	result, err := evaluation.Parse([]byte(extractJSON(raw)))
	if err != nil {
		if errors.Is(err, evaluation.ErrEmpty) {
			return nil, failure.New(failure.KindEmptyResponse, err)
		}
		e.logger.Warn("gemini response rejected",
			zap.String("handle", req.Handle),
			zap.Error(err),
		)
		return nil, failure.New(failure.KindMalformedEvaluation, err)
	}

	return result, nil
}

func buildPrompt(req *ai.Request) (string, error) {
	repos := req.Repositories
	if repos == nil {
		repos = []ai.RepositoryDigest{}
	}

	reposJSON, err := json.Marshal(repos)
	if err != nil {
		return "", fmt.Errorf("marshal repositories payload: %w", err)
	}

	bio := strings.TrimSpace(req.Bio)
	if bio == "" {
		bio = "None"
	}

	replacer := strings.NewReplacer(
		"{{HANDLE}}", req.Handle,
		"{{BIO}}", bio,
		"{{FOLLOWERS}}", strconv.Itoa(req.Followers),
		"{{REPOS_JSON}}", string(reposJSON),
		"{{RUBRIC}}", renderRubric(ai.Rubric),
	)

	return replacer.Replace(promptTemplate), nil
}

func renderRubric(weights []ai.Weight) string {
	lines := make([]string, 0, len(weights))
	for _, w := range weights {
		lines = append(lines, fmt.Sprintf("- %s: %d%% (%s)", w.Dimension, w.Percent, w.Criteria))
	}
	return strings.Join(lines, "\n")
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
