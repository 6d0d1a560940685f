// Package ai builds the evaluation request sent to a model and defines the
// contract an evaluator fulfils.
package ai

import (
	"time"

	"go.uber.org/zap"

	"github.com/spigell/gitrecruiter/internal/filtering"
	"github.com/spigell/gitrecruiter/internal/github"
)

// MaxRepositories caps how many repositories are described to the model.
const MaxRepositories = 15

// Weight is one rubric dimension and its share of the overall score.
type Weight struct {
	Dimension string
	Percent   int
	Criteria  string
}

// Rubric is the fixed scoring partition the model is asked to grade against.
var Rubric = []Weight{
	{Dimension: "Documentation", Percent: 25, Criteria: "README presence, quality, setup guides"},
	{Dimension: "Activity", Percent: 20, Criteria: "Recency, consistency of commits"},
	{Dimension: "Organization", Percent: 15, Criteria: "Topic tags, licenses, clean repo naming"},
	{Dimension: "Engagement", Percent: 15, Criteria: "Stars, forks, social proof"},
	{Dimension: "Depth", Percent: 15, Criteria: "Tech stack variety, project complexity"},
	{Dimension: "Impact", Percent: 10, Criteria: "Utility of tools, popularity, unique value"},
}

// RepositoryDigest is the reduced view of a repository included in a prompt.
type RepositoryDigest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stars       int    `json:"stars"`
	Language    string `json:"language"`
	Updated     string `json:"updated"`
}

// Request is everything the model sees about one profile.
type Request struct {
	Handle       string
	Bio          string
	Followers    int
	Repositories []RepositoryDigest
}

// BuildRequest drops forks, keeps the first MaxRepositories of what remains in
// fetch order and reduces each to a digest. Repositories is never nil.
func BuildRequest(logger *zap.Logger, profile *github.Profile, repos []github.Repository) *Request {
	steps := []filtering.Filter{
		filtering.NewExcludeForks(),
		filtering.NewLimit(MaxRepositories),
	}

	selected := filtering.Run(logger, steps, repos)

	digests := make([]RepositoryDigest, 0, len(selected))
	for _, r := range selected {
		digest := RepositoryDigest{
			Name:        r.Name,
			Description: r.Description,
			Stars:       r.Stars,
			Language:    r.Language,
		}
		if !r.UpdatedAt.IsZero() {
			digest.Updated = r.UpdatedAt.UTC().Format(time.RFC3339)
		}
		digests = append(digests, digest)
	}

	req := &Request{Repositories: digests}
	if profile != nil {
		req.Handle = profile.Login
		req.Bio = profile.Bio
		req.Followers = profile.Followers
	}

	return req
}
