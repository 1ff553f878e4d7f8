package docstore

import (
	"context"
	"sync"

	"opsconsole/internal/tree"
)

// PathLocker grants exclusive in-process locks on materialized path prefixes.
// Two lock sets conflict when any path of one equals, or is an ancestor
// segment of, a path of the other. The empty path locks the whole tree.
//
// Metadata transactions additionally take row locks (FOR UPDATE), so the
// locker only has to serialize work inside this process.
type PathLocker struct {
	mu      sync.Mutex
	held    map[uint64][]string
	nextID  uint64
	release chan struct{}
}

// NewPathLocker creates an empty locker
func NewPathLocker() *PathLocker {
	return &PathLocker{
		held:    make(map[uint64][]string),
		release: make(chan struct{}),
	}
}

// Lock blocks until every path can be held at once, then returns the unlock
// function. All paths are acquired together, so callers cannot deadlock by
// ordering.
func (l *PathLocker) Lock(ctx context.Context, paths ...string) (func(), error) {
	for {
		l.mu.Lock()
		if !l.conflicts(paths) {
			id := l.nextID
			l.nextID++
			l.held[id] = append([]string(nil), paths...)
			l.mu.Unlock()

			var once sync.Once
			return func() { once.Do(func() { l.unlock(id) }) }, nil
		}
		wait := l.release
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (l *PathLocker) unlock(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
	close(l.release)
	l.release = make(chan struct{})
}

func (l *PathLocker) conflicts(paths []string) bool {
	for _, set := range l.held {
		for _, a := range set {
			for _, b := range paths {
				if pathsOverlap(a, b) {
					return true
				}
			}
		}
	}
	return false
}

func pathsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return tree.HasPathPrefix(a, b) || tree.HasPathPrefix(b, a)
}
