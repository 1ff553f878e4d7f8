package objectstore

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStore implements Store in process memory. It is used by tests and
// by the server when OBJECT_BACKEND=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	now     func() time.Time

	// injected failures, keyed by path
	putErrs    map[string]error
	removeErrs map[string]error
	down       error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:    make(map[string]memoryObject),
		now:        time.Now,
		putErrs:    make(map[string]error),
		removeErrs: make(map[string]error),
	}
}

// FailPut makes the next Put calls for path return err.
func (m *MemoryStore) FailPut(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErrs[path] = err
}

// FailRemove makes removals of path report err.
func (m *MemoryStore) FailRemove(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeErrs[path] = err
}

// SetUnavailable makes every call fail with err; nil restores service.
func (m *MemoryStore) SetUnavailable(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = err
}

// SetClock overrides the time source used for LastModified.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Has reports whether an object exists at path.
func (m *MemoryStore) Has(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[path]
	return ok
}

func (m *MemoryStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.down != nil {
		return m.down
	}
	if err := m.putErrs[path]; err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	m.objects[path] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		modified:    m.now(),
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.down != nil {
		return nil, m.down
	}
	obj, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", path, ErrObjectNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

// Remove deletes each path. Removing a missing path is not a failure.
func (m *MemoryStore) Remove(ctx context.Context, paths []string) (map[string]error, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	failures := make(map[string]error)
	if m.down != nil {
		for _, p := range paths {
			failures[p] = m.down
		}
		return failures, nil
	}
	for _, p := range paths {
		if err := m.removeErrs[p]; err != nil {
			failures[p] = err
			continue
		}
		delete(m.objects, p)
	}
	return failures, nil
}

func (m *MemoryStore) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.down != nil {
		return "", m.down
	}
	if _, ok := m.objects[path]; !ok {
		return "", fmt.Errorf("object %s: %w", path, ErrObjectNotFound)
	}
	q := url.Values{"expires": {fmt.Sprint(m.now().Add(ttl).Unix())}}
	return "memory:///" + url.PathEscape(path) + "?" + q.Encode(), nil
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.down != nil {
		return nil, m.down
	}
	var out []ObjectInfo
	for p, obj := range m.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, ObjectInfo{Path: p, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
