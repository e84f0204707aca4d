package effects

import (
	"context"
	"sync"
)

// Scope owns the lifetime of a set of effects: a cancellable context, the
// goroutines started under it and the cleanups registered with Defer.
// After Close returns no goroutine started by the scope is still running.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	cleanup []func()
	wg      sync.WaitGroup
}

// NewScope creates a scope whose context is derived from parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope's context. It is cancelled by Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Go runs fn on a new goroutine tracked by the scope. It reports false and
// does nothing once the scope is closed.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
	return true
}

// Defer registers fn to run on Close. Cleanups run in reverse order.
// Registering on a closed scope runs fn immediately.
func (s *Scope) Defer(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanup = append(s.cleanup, fn)
	s.mu.Unlock()
}

// Closed reports whether Close has been called
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close cancels the context, runs cleanups and waits for goroutines.
// It must not be called from a goroutine the scope started.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cleanup := s.cleanup
	s.cleanup = nil
	s.mu.Unlock()

	s.cancel()
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	s.wg.Wait()
}

// Lane runs at most one request at a time. Switching to a newer request
// cancels the one in flight.
type Lane struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	seq     uint64
	version uint64
}

// Switch starts the request issued at snapshot version and returns its
// context. A request older than the lane's latest comes back already
// cancelled and leaves the current one running. release must be called
// when the request finishes.
func (l *Lane) Switch(parent context.Context, version uint64) (ctx context.Context, release func()) {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	if version < l.version {
		l.mu.Unlock()
		cancel()
		return ctx, cancel
	}
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	seq := l.seq
	l.version = version
	l.cancel = cancel
	l.mu.Unlock()

	return ctx, func() {
		l.mu.Lock()
		if l.seq == seq {
			l.cancel = nil
		}
		l.mu.Unlock()
		cancel()
	}
}

// Cancel stops the request in flight, if any
func (l *Lane) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Supersede cancels a request issued before version and refuses such
// requests from then on. A newer request in flight is left alone.
func (l *Lane) Supersede(version uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if version < l.version {
		return
	}
	l.version = version
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// lanes hands out named lanes
type lanes struct {
	mu    sync.Mutex
	byKey map[string]*Lane
}

func (ls *lanes) get(key string) *Lane {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.byKey == nil {
		ls.byKey = make(map[string]*Lane)
	}
	l, ok := ls.byKey[key]
	if !ok {
		l = &Lane{}
		ls.byKey[key] = l
	}
	return l
}

func (ls *lanes) cancelAll() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, l := range ls.byKey {
		l.Cancel()
	}
}
