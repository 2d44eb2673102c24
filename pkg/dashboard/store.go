package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/situationroom/pkg/observability"
)

// Listener is called with the new state after every dispatch that changed it.
type Listener func(State)

// Store holds the current State and serializes dispatches through a Reducer.
// It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	reducer   *Reducer
	state     State
	logger    *log.Logger
	listeners map[int]Listener
	nextID    int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for dispatch diagnostics.
func WithStoreLogger(l *log.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store holding initial.
func NewStore(r *Reducer, initial State, opts ...StoreOption) *Store {
	s := &Store{
		reducer:   r,
		state:     initial.Clone(),
		logger:    log.Default(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch reduces a against the current state and returns the result.
// Listeners are notified after the store lock is released.
func (s *Store) Dispatch(a Action) (State, error) {
	if a == nil {
		return s.State(), nil
	}
	start := time.Now()
	s.mu.Lock()
	next, err := s.reducer.Reduce(s.state, a)
	observability.State().OnDispatch(a.Kind(), time.Since(start), err)
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("dispatch failed", "action", a.Kind(), "error", err)
		return s.State(), err
	}
	s.state = next
	snapshot := next.Clone()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("dispatched", "action", a.Kind(), "dashboards", len(snapshot.Dashboards))
	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
	return snapshot, nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Active returns a copy of the active dashboard, if any.
func (s *Store) Active() (Dashboard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.state.Active()
	if !ok {
		return Dashboard{}, false
	}
	return d.Clone(), true
}

// Replace swaps in a whole new state, as when reloading from storage.
// Listeners are not notified.
func (s *Store) Replace(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.Clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	// Notify in subscription order.
	slices.Sort(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}
