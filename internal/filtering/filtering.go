// Package filtering narrows a repository list down to what is sent for evaluation.
package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/gitrecruiter/internal/github"
)

// Filter represents a single filtering step applied to repositories.
type Filter interface {
	Name() string
	Apply(repos []github.Repository) ([]github.Repository, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially and returns the remaining
// repositories in their original relative order. The input slice is not modified.
func Run(logger *zap.Logger, steps []Filter, repos []github.Repository) []github.Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	current := make([]github.Repository, len(repos))
	copy(current, repos)

	for _, step := range steps {
		next, info := step.Apply(current)

		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		current = next
	}

	return current
}
