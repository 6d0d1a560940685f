package filtering

import "github.com/spigell/gitrecruiter/internal/github"

type limitFilter struct {
	max int
}

// NewLimit creates a filter that keeps only the first max repositories.
// A negative max keeps nothing.
func NewLimit(max int) Filter {
	if max < 0 {
		max = 0
	}
	return &limitFilter{max: max}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Apply(repos []github.Repository) ([]github.Repository, Step) {
	initial := len(repos)
	if initial <= f.max {
		return repos, Step{Initial: initial, Dropped: 0, Left: initial}
	}

	return repos[:f.max], Step{Initial: initial, Dropped: initial - f.max, Left: f.max}
}
