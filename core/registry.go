package core

import (
	"fmt"
	"sync"
)

// Registry tracks the paths allocated under one root. It is the naming
// table of a running actor system: every live actor's path is recorded
// here, so names are unique among siblings and the supervision tree can
// be walked from any registered path.
type Registry struct {
	mu sync.RWMutex

	root *RootPath

	// Maps canonical string to registered path
	paths map[string]Path

	// Maps parent canonical string to its children by name
	children map[string]map[string]*ChildPath
}

// NewRegistry creates a Registry holding only root.
func NewRegistry(root *RootPath) *Registry {
	return &Registry{
		root:     root,
		paths:    map[string]Path{root.String(): root},
		children: make(map[string]map[string]*ChildPath),
	}
}

// Root returns the root the registry was created for.
func (r *Registry) Root() *RootPath {
	return r.root
}

// Allocate derives the child name of parent and records it. The parent
// must already be registered, and name must not be taken by a sibling.
func (r *Registry) Allocate(parent Path, name string) (*ChildPath, error) {
	if parent == nil {
		return nil, ErrNilParent
	}
	child, err := parent.Child(name)
	if err != nil {
		return nil, err
	}
	if err := r.Register(child); err != nil {
		return nil, err
	}
	return child, nil
}

// Register records a child path derived elsewhere, e.g. with
// Path.Child. Its parent must already be registered.
func (r *Registry) Register(child *ChildPath) error {
	if child.Address() != r.root.address {
		return fmt.Errorf("%w: %s", ErrForeignPath, child)
	}

	parentKey := child.parent.String()
	key := child.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.paths[parentKey]; !exists {
		return fmt.Errorf("%w: parent %s", ErrPathNotFound, parentKey)
	}
	if _, exists := r.paths[key]; exists {
		return fmt.Errorf("%w: %s", ErrPathExists, key)
	}

	siblings := r.children[parentKey]
	if siblings == nil {
		siblings = make(map[string]*ChildPath)
		r.children[parentKey] = siblings
	}
	siblings[child.name] = child
	r.paths[key] = child

	return nil
}

// Lookup returns the registered path equal to p.
func (r *Registry) Lookup(p Path) (Path, bool) {
	if p == nil {
		return nil, false
	}
	return r.lookupKey(p.String())
}

func (r *Registry) lookupKey(key string) (Path, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.paths[key]
	return p, exists
}

// Resolve parses s and returns the registered path it names. A uid
// fragment in s is ignored.
func (r *Registry) Resolve(s string) (Path, error) {
	parsed, _, err := ParsePath(s)
	if err != nil {
		return nil, err
	}
	if parsed.Address() != r.root.address {
		return nil, fmt.Errorf("%w: %s", ErrForeignPath, s)
	}
	if p, exists := r.lookupKey(parsed.String()); exists {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrPathNotFound, s)
}

// Release removes p. Paths with registered children cannot be released,
// and the root is never released.
func (r *Registry) Release(p Path) error {
	child, ok := p.(*ChildPath)
	if !ok {
		return fmt.Errorf("%w: cannot release root %v", ErrInvalidPath, p)
	}

	key := child.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.paths[key]; !exists {
		return fmt.Errorf("%w: %s", ErrPathNotFound, key)
	}
	if len(r.children[key]) > 0 {
		return fmt.Errorf("%w: %s", ErrPathHasChildren, key)
	}

	parentKey := child.parent.String()
	delete(r.paths, key)
	delete(r.children, key)
	delete(r.children[parentKey], child.name)
	if len(r.children[parentKey]) == 0 {
		delete(r.children, parentKey)
	}

	return nil
}

// Children returns the registered children of parent in path order.
func (r *Registry) Children(parent Path) []*ChildPath {
	if parent == nil {
		return nil
	}
	key := parent.String()

	r.mu.RLock()
	siblings := r.children[key]
	paths := make([]Path, 0, len(siblings))
	for _, child := range siblings {
		paths = append(paths, child)
	}
	r.mu.RUnlock()

	SortPaths(paths)

	result := make([]*ChildPath, len(paths))
	for i, p := range paths {
		result[i] = p.(*ChildPath)
	}
	return result
}

// List returns every registered path, root included, in path order.
func (r *Registry) List() []Path {
	r.mu.RLock()
	paths := make([]Path, 0, len(r.paths))
	for _, p := range r.paths {
		paths = append(paths, p)
	}
	r.mu.RUnlock()

	SortPaths(paths)
	return paths
}

// Len returns the number of registered paths, root included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.paths)
}
