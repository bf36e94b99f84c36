package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemorySource serves a tree held in memory, such as a loaded export file.
type MemorySource struct {
	mu   sync.RWMutex
	Tree map[string]interface{}
	// FailRead, when set, is consulted before every read.
	FailRead func(path string) error
}

func NewMemorySource(tree map[string]interface{}) *MemorySource {
	if tree == nil {
		tree = map[string]interface{}{}
	}
	return &MemorySource{Tree: tree}
}

func (m *MemorySource) ReadAll(_ context.Context, path string) (interface{}, error) {
	if m.FailRead != nil {
		if err := m.FailRead(path); err != nil {
			return nil, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var node interface{} = m.Tree
	for _, seg := range splitPath(path) {
		switch v := node.(type) {
		case map[string]interface{}:
			node = v[seg]
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, nil
			}
			node = v[i]
		default:
			return nil, nil
		}
		if node == nil {
			return nil, nil
		}
	}
	return node, nil
}

func (m *MemorySource) Close() error { return nil }

// MemoryDestination is a document store kept in a map keyed by document path.
// It records the size of every commit group it receives.
type MemoryDestination struct {
	mu      sync.RWMutex
	docs    map[string]map[string]interface{}
	Commits []int
	// FailSet, when set, can reject individual SetDocument calls.
	FailSet func(path string) error
	// FailCommit, when set, can reject a commit group by its ordinal (0-based).
	FailCommit func(n int, writes []Write) error
}

func NewMemoryDestination() *MemoryDestination {
	return &MemoryDestination{docs: make(map[string]map[string]interface{})}
}

func (m *MemoryDestination) SetDocument(_ context.Context, path string, data map[string]interface{}) error {
	if !isDocumentPath(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if m.FailSet != nil {
		if err := m.FailSet(path); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[path] = copyDoc(data)
	return nil
}

func (m *MemoryDestination) UpdateFields(_ context.Context, path string, data map[string]interface{}) error {
	if !isDocumentPath(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merge(path, data)
	return nil
}

func (m *MemoryDestination) merge(path string, data map[string]interface{}) {
	existing, ok := m.docs[path]
	if !ok {
		existing = make(map[string]interface{})
		m.docs[path] = existing
	}
	mergeInto(existing, data)
}

func (m *MemoryDestination) DeleteMapKeys(_ context.Context, path, field string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	if !ok {
		return ErrNotFound
	}
	if inner, ok := doc[field].(map[string]interface{}); ok {
		for _, k := range keys {
			delete(inner, k)
		}
	}
	return nil
}

func (m *MemoryDestination) CommitGroup(_ context.Context, writes []Write) error {
	if len(writes) > MaxGroupSize {
		return fmt.Errorf("%w: %d writes", ErrGroupTooLarge, len(writes))
	}
	for _, w := range writes {
		if !isDocumentPath(w.Path) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, w.Path)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.Commits)
	m.Commits = append(m.Commits, len(writes))
	if m.FailCommit != nil {
		if err := m.FailCommit(n, writes); err != nil {
			return err
		}
	}
	for _, w := range writes {
		if w.Mode == WriteMerge {
			m.merge(w.Path, w.Data)
			continue
		}
		m.docs[w.Path] = copyDoc(w.Data)
	}
	return nil
}

func (m *MemoryDestination) GetDocument(_ context.Context, path string) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

func (m *MemoryDestination) ListDocuments(_ context.Context, collection string) (map[string]map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]map[string]interface{})
	for id, path := range m.children(collection) {
		out[id] = copyDoc(m.docs[path])
	}
	return out, nil
}

func (m *MemoryDestination) ListDocumentIDs(_ context.Context, collection string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0)
	for id := range m.children(collection) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryDestination) ReadCount(_ context.Context, collection string) (int, error) {
	if !isCollectionPath(collection) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPath, collection)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.children(collection)), nil
}

func (m *MemoryDestination) ReadSubcollectionCount(ctx context.Context, parent, name string) (int, error) {
	return m.ReadCount(ctx, Join(parent, name))
}

// Paths lists every stored document path, sorted.
func (m *MemoryDestination) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemoryDestination) Close() error { return nil }

// children maps document id to full path for the direct documents of collection.
func (m *MemoryDestination) children(collection string) map[string]string {
	prefix := strings.Trim(collection, "/") + "/"
	out := make(map[string]string)
	for path := range m.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		out[rest] = path
	}
	return out
}

func mergeInto(dst, src map[string]interface{}) {
	for k, v := range src {
		if sub, ok := v.(map[string]interface{}); ok {
			if existing, ok := dst[k].(map[string]interface{}); ok {
				mergeInto(existing, sub)
				continue
			}
			dst[k] = copyDoc(sub)
			continue
		}
		dst[k] = v
	}
}

func copyDoc(src map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(src))
	for k, v := range src {
		switch t := v.(type) {
		case map[string]interface{}:
			out[k] = copyDoc(t)
		case []string:
			out[k] = append(make([]string, 0, len(t)), t...)
		default:
			out[k] = v
		}
	}
	return out
}
