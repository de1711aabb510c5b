package dashboard

import "sync"

// Store serializes actions against a single session state. Every Dispatch is
// applied atomically; readers never observe a partly applied action.
type Store struct {
	mu    sync.Mutex
	state State
	env   Env
}

func NewStore(env Env) *Store {
	return &Store{state: Init(), env: env}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Update(s.state, a, s.env)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// BeginForecast records a new analysis request and returns its sequence
// number. Only a response tagged with the latest number is applied.
func (s *Store) BeginForecast(a ForecastRequested) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, _ := Update(s.state, a, s.env)
	s.state = next
	return next.Analysis.LatestSeq
}

// Snapshot returns the current state. Treat it as read-only.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs actions in order as one transition. If any action fails the
// store keeps its previous state and the error is returned.
func (s *Store) Apply(actions ...Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	for _, a := range actions {
		var err error
		next, err = Update(next, a, s.env)
		if err != nil {
			return s.state, err
		}
	}
	s.state = next
	return next, nil
}
