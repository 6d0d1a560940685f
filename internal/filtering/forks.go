package filtering

import "github.com/spigell/gitrecruiter/internal/github"

type excludeForksFilter struct{}

// NewExcludeForks creates a filter that removes forked repositories.
func NewExcludeForks() Filter {
	return &excludeForksFilter{}
}

func (f *excludeForksFilter) Name() string { return "exclude_forks" }

func (f *excludeForksFilter) Apply(repos []github.Repository) ([]github.Repository, Step) {
	initial := len(repos)
	kept := make([]github.Repository, 0, initial)
	for _, r := range repos {
		if r.Fork {
			continue
		}
		kept = append(kept, r)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}
