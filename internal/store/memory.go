package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Memory is a process-local tree store. It backs the test suite and the
// STORE_BACKEND=memory development mode; data does not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	root map[string]any
}

// NewMemory creates an empty tree.
func NewMemory() *Memory {
	return &Memory{root: map[string]any{}}
}

func (m *Memory) Get(ctx context.Context, path string, dest any) error {
	m.mu.RLock()
	node := m.lookup(path)
	m.mu.RUnlock()
	if node == nil {
		return nil
	}
	blob, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(blob, dest)
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	if value == nil {
		return m.Remove(ctx, path)
	}
	node, err := normalize(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	segs := segments(path)
	if len(segs) == 0 {
		root, ok := node.(map[string]any)
		if !ok {
			return fmt.Errorf("root value must be an object")
		}
		m.root = root
		return nil
	}
	parent := m.mkdirs(segs[:len(segs)-1])
	parent[segs[len(segs)-1]] = node
	return nil
}

func (m *Memory) Update(ctx context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	segs := segments(path)
	node := m.mkdirs(segs)
	for key, value := range fields {
		if value == nil {
			delete(node, key)
			continue
		}
		normalized, err := normalize(value)
		if err != nil {
			return err
		}
		node[key] = normalized
	}
	return nil
}

func (m *Memory) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	segs := segments(path)
	if len(segs) == 0 {
		m.root = map[string]any{}
		return nil
	}
	m.prune(m.root, segs)
	return nil
}

func (m *Memory) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node := m.lookup(path)
	if node == nil {
		return false, nil
	}
	if child, ok := node.(map[string]any); ok && len(child) == 0 {
		return false, nil
	}
	return true, nil
}

// lookup walks the tree without taking the lock; callers hold it.
func (m *Memory) lookup(path string) any {
	var node any = m.root
	for _, seg := range segments(path) {
		child, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = child[seg]
		if node == nil {
			return nil
		}
	}
	return node
}

// mkdirs walks to the node at segs, creating (or replacing non-object)
// intermediate nodes along the way.
func (m *Memory) mkdirs(segs []string) map[string]any {
	node := m.root
	for _, seg := range segs {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
	return node
}

// prune removes the subtree at segs and empties out ancestors left childless,
// so absent and empty nodes are indistinguishable, as in the hosted backend.
func (m *Memory) prune(node map[string]any, segs []string) bool {
	if len(segs) == 1 {
		delete(node, segs[0])
		return len(node) == 0
	}
	child, ok := node[segs[0]].(map[string]any)
	if !ok {
		return false
	}
	if m.prune(child, segs[1:]) {
		delete(node, segs[0])
	}
	return len(node) == 0
}

// normalize round-trips a value through JSON so stored nodes use the same
// shapes a remote backend would return (maps, slices, float64 numbers) and
// share no memory with the caller.
func normalize(value any) (any, error) {
	blob, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
