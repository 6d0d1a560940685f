package ai

import (
	"context"

	"github.com/spigell/gitrecruiter/internal/evaluation"
)

// Evaluator grades a portfolio request with an external model.
type Evaluator interface {
	Evaluate(ctx context.Context, req *Request) (*evaluation.Result, error)
}
