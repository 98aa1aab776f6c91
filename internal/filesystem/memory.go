package filesystem

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const maxSymlinkHops = 40

var errTooManyLinks = errors.New("too many levels of symbolic links")

type nodeKind int

const (
	nodeDir nodeKind = iota
	nodeFile
	nodeSymlink
)

type memNode struct {
	kind     nodeKind
	target   string
	children map[string]struct{}
}

// MemoryProvider is an in-memory Provider for deterministic tests.
// Paths are absolute and use the host separator.
type MemoryProvider struct {
	mu     sync.RWMutex
	nodes  map[string]*memNode
	denied map[string]struct{}
}

// NewMemoryProvider returns an empty tree containing only the filesystem root.
func NewMemoryProvider() *MemoryProvider {
	root := string(filepath.Separator)
	return &MemoryProvider{
		nodes:  map[string]*memNode{root: {kind: nodeDir, children: make(map[string]struct{})}},
		denied: make(map[string]struct{}),
	}
}

// AddDir creates the directory at path along with any missing parents.
func (m *MemoryProvider) AddDir(path string) *MemoryProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDir(clean(path))
	return m
}

// AddRepository creates a directory at path containing a .git marker directory.
func (m *MemoryProvider) AddRepository(path string) *MemoryProvider {
	return m.AddDir(filepath.Join(path, MarkerName))
}

// AddFile creates a regular file at path.
func (m *MemoryProvider) AddFile(path string) *MemoryProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)
	m.addDir(filepath.Dir(path))
	m.link(path, &memNode{kind: nodeFile})
	return m
}

// AddSymlink creates a symbolic link at path. A relative target is resolved
// against the link's parent directory.
func (m *MemoryProvider) AddSymlink(path, target string) *MemoryProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = clean(path)
	m.addDir(filepath.Dir(path))
	m.link(path, &memNode{kind: nodeSymlink, target: target})
	return m
}

// Deny makes listing the directory at path fail with a permission error.
func (m *MemoryProvider) Deny(path string) *MemoryProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[clean(path)] = struct{}{}
	return m
}

func (m *MemoryProvider) addDir(path string) {
	if _, ok := m.nodes[path]; ok {
		return
	}
	m.addDir(filepath.Dir(path))
	m.link(path, &memNode{kind: nodeDir, children: make(map[string]struct{})})
}

func (m *MemoryProvider) link(path string, node *memNode) {
	m.nodes[path] = node
	parent := m.nodes[filepath.Dir(path)]
	parent.children[filepath.Base(path)] = struct{}{}
}

// ListChildren returns the sorted entries of the directory at path.
func (m *MemoryProvider) ListChildren(path string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resolved, err := m.resolve(clean(path), 0)
	if err != nil {
		return nil, &IoError{Path: path, Op: "list", Err: err}
	}
	node := m.nodes[resolved]
	if node.kind != nodeDir {
		return nil, &IoError{Path: path, Op: "list", Err: errors.New("not a directory")}
	}
	if _, denied := m.denied[resolved]; denied {
		return nil, &IoError{Path: path, Op: "list", Err: fs.ErrPermission}
	}

	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		childPath := filepath.Join(clean(path), name)
		child := m.nodes[filepath.Join(resolved, name)]
		entry := Entry{Name: name, Path: childPath}
		switch child.kind {
		case nodeDir:
			entry.IsDir = true
		case nodeSymlink:
			entry.IsSymlink = true
			if target, err := m.resolve(childPath, 0); err == nil {
				entry.IsDir = m.nodes[target].kind == nodeDir
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// IsRepositoryMarker reports whether the directory at path contains a .git entry.
func (m *MemoryProvider) IsRepositoryMarker(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resolved, err := m.resolve(clean(path), 0)
	if err != nil {
		return false
	}
	_, err = m.resolve(filepath.Join(resolved, MarkerName), 0)
	return err == nil
}

// Canonical resolves every symbolic link in path.
func (m *MemoryProvider) Canonical(path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resolved, err := m.resolve(clean(path), 0)
	if err != nil {
		return "", &IoError{Path: path, Op: "resolve", Err: err}
	}
	return resolved, nil
}

// resolve walks path component by component, following links the way the
// kernel does. It fails with fs.ErrNotExist for missing components.
func (m *MemoryProvider) resolve(path string, hops int) (string, error) {
	current := string(filepath.Separator)
	parts := strings.Split(strings.TrimPrefix(path, current), string(filepath.Separator))

	for i, part := range parts {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)
		node, ok := m.nodes[next]
		if !ok {
			return "", fs.ErrNotExist
		}
		if node.kind == nodeSymlink {
			hops++
			if hops > maxSymlinkHops {
				return "", errTooManyLinks
			}
			target := node.target
			if !filepath.IsAbs(target) {
				target = filepath.Join(current, target)
			}
			rest := append([]string{target}, parts[i+1:]...)
			return m.resolve(filepath.Join(rest...), hops)
		}
		if node.kind == nodeFile && i < len(parts)-1 {
			return "", fs.ErrNotExist
		}
		current = next
	}
	return current, nil
}

func clean(path string) string {
	if !filepath.IsAbs(path) {
		path = string(filepath.Separator) + path
	}
	return filepath.Clean(path)
}
