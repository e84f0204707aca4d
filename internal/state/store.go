package state

import (
	"fmt"
	"log/slog"
	"sync"
)

// Listener is notified after every dispatch with the action and the
// snapshot it produced. Listeners run on the dispatching goroutine,
// outside the store lock, and may dispatch further actions.
type Listener func(a Action, s State)

// Store owns the current snapshot. Reduction is serialized; notification
// is not, so a listener that renders should ignore snapshots whose Version
// is lower than one it has already seen.
type Store struct {
	mu      sync.Mutex
	state   State
	reducer Reducer
	logger  *slog.Logger

	lmu       sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store seeded with initial and reducing with Reduce
func NewStore(initial State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:     initial,
		reducer:   Reduce,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// State returns the current snapshot
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch reduces a into a new snapshot, publishes it and returns it
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	next := st.reducer(st.state, a)
	next.Version = st.state.Version + 1
	st.state = next
	st.mu.Unlock()

	st.logger.Debug("dispatch", "action", fmt.Sprintf("%T", a), "version", next.Version)

	st.lmu.RLock()
	listeners := make([]Listener, 0, len(st.listeners))
	for _, l := range st.listeners {
		listeners = append(listeners, l)
	}
	st.lmu.RUnlock()

	for _, l := range listeners {
		l(a, next)
	}
	return next
}

// Subscribe registers l and returns a function that unregisters it.
// Calling the returned function more than once is safe.
func (st *Store) Subscribe(l Listener) (unsubscribe func()) {
	st.lmu.Lock()
	id := st.nextID
	st.nextID++
	st.listeners[id] = l
	st.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.lmu.Lock()
			delete(st.listeners, id)
			st.lmu.Unlock()
		})
	}
}

// Changes adapts the store to a signal channel. Sends never block: a burst
// of dispatches collapses into one pending signal, and the consumer reads
// State() to get the newest snapshot.
func (st *Store) Changes() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func(Action, State) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return ch, unsubscribe
}
