package session

import (
	"context"
	"sync"
)

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// Locks serializes actions per session id. Entries are dropped once nobody
// holds or waits for them.
type Locks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// NewLocks creates an empty lock registry
func NewLocks() *Locks {
	return &Locks{entries: make(map[string]*lockEntry)}
}

// Acquire blocks until id is free or ctx is done. The returned release must
// be called exactly once.
func (l *Locks) Acquire(ctx context.Context, id string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.unref(id, e)
		}, nil
	case <-ctx.Done():
		l.unref(id, e)
		return nil, ctx.Err()
	}
}

func (l *Locks) unref(id string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, id)
	}
}

// Len returns the number of sessions currently locked or awaited
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
