// Package session tracks the lifecycle of evaluation searches. Only the most
// recently started search may change the visible state.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spigell/gitrecruiter/internal/evaluation"
	"github.com/spigell/gitrecruiter/internal/github"
)

type Status string

const (
	StatusIdle            Status = "idle"
	StatusFetchingProfile Status = "fetching_profile"
	StatusEvaluating      Status = "evaluating"
	StatusSuccess         Status = "success"
	StatusError           Status = "error"
)

// ErrInvalidTransition is returned when an event does not apply to the current status.
var ErrInvalidTransition = errors.New("invalid session transition")

// Snapshot is an immutable view of one search.
type Snapshot struct {
	SearchID     string
	Handle       string
	Status       Status
	Profile      *github.Profile
	Repositories []github.Repository
	Result       *evaluation.Result
	Err          error
}

// Event drives a transition.
type Event interface {
	event()
}

// Started resets the session for a new search.
type Started struct {
	SearchID string
	Handle   string
}

// ProfileFetched records the fetched profile and moves on to evaluation.
type ProfileFetched struct {
	Profile      *github.Profile
	Repositories []github.Repository
}

// Evaluated stores the final result.
type Evaluated struct {
	Result *evaluation.Result
}

// Failed ends the search with an error.
type Failed struct {
	Err error
}

func (Started) event()        {}
func (ProfileFetched) event() {}
func (Evaluated) event()      {}
func (Failed) event()         {}

// Transition computes the next snapshot. It never mutates cur.
func Transition(cur Snapshot, ev Event) (Snapshot, error) {
	switch e := ev.(type) {
	case Started:
		// A new search replaces everything, whatever the previous status.
		return Snapshot{SearchID: e.SearchID, Handle: e.Handle, Status: StatusFetchingProfile}, nil

	case ProfileFetched:
		if cur.Status != StatusFetchingProfile {
			return cur, fmt.Errorf("%w: profile fetched while %s", ErrInvalidTransition, cur.Status)
		}
		next := cur
		next.Status = StatusEvaluating
		next.Profile = e.Profile
		next.Repositories = e.Repositories
		return next, nil

	case Evaluated:
		if cur.Status != StatusEvaluating {
			return cur, fmt.Errorf("%w: evaluated while %s", ErrInvalidTransition, cur.Status)
		}
		if e.Result == nil {
			return cur, fmt.Errorf("%w: evaluated without a result", ErrInvalidTransition)
		}
		next := cur
		next.Status = StatusSuccess
		next.Result = e.Result
		return next, nil

	case Failed:
		if cur.Status != StatusFetchingProfile && cur.Status != StatusEvaluating {
			return cur, fmt.Errorf("%w: failed while %s", ErrInvalidTransition, cur.Status)
		}
		next := cur
		next.Status = StatusError
		next.Result = nil
		next.Err = e.Err
		return next, nil

	default:
		return cur, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
	}
}

// State holds the current snapshot. It is safe for concurrent use.
type State struct {
	mu      sync.Mutex
	current Snapshot
}

func New() *State {
	return &State{current: Snapshot{Status: StatusIdle}}
}

// Begin starts a new search and returns its id. Any search still in flight
// becomes stale.
func (s *State) Begin(handle string) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Started is valid from every status.
	s.current, _ = Transition(s.current, Started{SearchID: id, Handle: handle})
	return id
}

// Apply feeds ev to the search identified by searchID. Events for a search
// that is no longer current are dropped and reported as not applied.
func (s *State) Apply(searchID string, ev Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if searchID == "" || searchID != s.current.SearchID {
		return false, nil
	}

	next, err := Transition(s.current, ev)
	if err != nil {
		return false, err
	}

	s.current = next
	return true, nil
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
