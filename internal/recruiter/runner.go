// Package recruiter runs one portfolio evaluation end to end: handle parsing,
// profile fetch, request building and model evaluation.
package recruiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/gitrecruiter/internal/ai"
	"github.com/spigell/gitrecruiter/internal/ai/gemini"
	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/github"
	"github.com/spigell/gitrecruiter/internal/logger"
	"github.com/spigell/gitrecruiter/internal/session"
)

const provider = "gemini"

type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	GitHubToken     string
	GitHubAPIURL    string
	FetchTimeout    time.Duration
	EvaluateTimeout time.Duration
	MaxLogLength    int
}

type Option func(*Runner)

// WithEvaluator replaces the Gemini evaluator built from Config.
func WithEvaluator(evaluator ai.Evaluator) Option {
	return func(r *Runner) {
		r.evaluator = evaluator
	}
}

// WithState shares a session state between runners.
func WithState(state *session.State) Option {
	return func(r *Runner) {
		r.state = state
	}
}

type Runner struct {
	cfg    Config
	logger *zap.Logger
	github *github.Client
	state  *session.State

	mu        sync.Mutex
	evaluator ai.Evaluator
	model     string
}

func New(cfg Config, logger *zap.Logger, opts ...Option) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := github.New(logger.Named("github"), cfg.GitHubToken)
	if cfg.FetchTimeout > 0 {
		client.Timeout = cfg.FetchTimeout
	}
	if err := client.SetBaseURL(cfg.GitHubAPIURL); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    cfg,
		logger: logger,
		github: client,
		model:  cfg.GeminiModel,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.state == nil {
		r.state = session.New()
	}

	return r, nil
}

// Run evaluates the profile behind raw, a handle or a profile URL. Failures
// are returned as *failure.Error and recorded in the session; nothing partial
// is ever stored. Results of a search superseded by a newer Run are dropped
// from the session but still returned to the caller.
func (r *Runner) Run(ctx context.Context, raw string) (*evaluation.Result, error) {
	handle, err := github.ParseHandle(raw)
	if err != nil {
		return nil, err
	}

	searchID := r.state.Begin(handle)
	log := logger.WithFields(r.logger, logger.SearchFields(searchID, handle)...)

	result, err := r.run(ctx, searchID, handle, log)
	if err != nil {
		log.Warn("evaluation failed", zap.Error(err))
		r.apply(log, searchID, session.Failed{Err: err})
		return nil, err
	}

	log.Info("evaluation finished",
		zap.String("grade", string(result.Grade)),
		zap.Int("overall_score", result.OverallScore),
	)

	return result, nil
}

func (r *Runner) run(ctx context.Context, searchID, handle string, log *zap.Logger) (*evaluation.Result, error) {
	// The credential is checked before anything touches the network.
	evaluator, model, err := r.resolveEvaluator(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("fetching profile")

	profile, repos, err := r.github.FetchProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	r.apply(log, searchID, session.ProfileFetched{Profile: profile, Repositories: repos})

	req := ai.BuildRequest(log, profile, repos)

	log.Info("evaluating profile",
		append(logger.CommonFields(provider, model),
			zap.Int("repositories_fetched", len(repos)),
			zap.Int("repositories_sent", len(req.Repositories)),
		)...,
	)

	result, err := evaluator.Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}

	r.apply(log, searchID, session.Evaluated{Result: result})

	return result, nil
}

func (r *Runner) apply(log *zap.Logger, searchID string, ev session.Event) {
	applied, err := r.state.Apply(searchID, ev)
	if err != nil {
		log.Error("updating session", zap.Error(err))
		return
	}
	if !applied {
		log.Debug("stale search ignored", zap.String("event", fmt.Sprintf("%T", ev)))
	}
}

func (r *Runner) resolveEvaluator(ctx context.Context) (ai.Evaluator, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.evaluator != nil {
		return r.evaluator, r.model, nil
	}

	aiLogger := logger.WithFields(r.logger.Named("gemini"), logger.CommonFields(provider, r.cfg.GeminiModel)...)

	generator, err := gemini.NewGenerator(ctx, r.cfg.GeminiAPIKey, r.cfg.GeminiModel, aiLogger)
	if err != nil {
		return nil, "", err
	}

	r.model = generator.Model()
	r.evaluator = gemini.NewEvaluator(generator, aiLogger, r.cfg.MaxLogLength, r.cfg.EvaluateTimeout)

	return r.evaluator, r.model, nil
}

// Snapshot returns the state of the latest search.
func (r *Runner) Snapshot() session.Snapshot {
	return r.state.Snapshot()
}
