package attrfs

import (
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/dynexport/pkg/dynexport/registry"
)

// Class is a namespace of class attributes and published nodes.
// It is safe for concurrent use.
type Class[T any] struct {
	name string

	classAttrs map[string]ClassAttr
	classOrder []string
	nodeAttrs  map[string]Attr[T]
	nodeOrder  []string

	nodes *registry.Registry[string, T]

	// life guards closed against Publish: Publish holds it shared, Unregister
	// exclusively, so no node can appear after Unregister returns.
	life   sync.RWMutex
	closed bool
}

// NewClass creates a class named name. Attribute names are listed in the order
// given. Later duplicates of a name replace earlier ones.
func NewClass[T any](name string, classAttrs []ClassAttr, nodeAttrs []Attr[T]) *Class[T] {
	c := &Class[T]{
		name:       name,
		classAttrs: make(map[string]ClassAttr, len(classAttrs)),
		nodeAttrs:  make(map[string]Attr[T], len(nodeAttrs)),
		nodes:      registry.New[string, T](),
	}
	for _, a := range classAttrs {
		if _, dup := c.classAttrs[a.Name]; !dup {
			c.classOrder = append(c.classOrder, a.Name)
		}
		c.classAttrs[a.Name] = a
	}
	for _, a := range nodeAttrs {
		if _, dup := c.nodeAttrs[a.Name]; !dup {
			c.nodeOrder = append(c.nodeOrder, a.Name)
		}
		c.nodeAttrs[a.Name] = a
	}
	return c
}

// Name returns the class name.
func (c *Class[T]) Name() string { return c.name }

// Publish makes a node named name visible, carrying data.
// It fails with ErrExists if the name is taken.
func (c *Class[T]) Publish(name string, data T) error {
	c.life.RLock()
	defer c.life.RUnlock()

	if c.closed {
		return &PathError{Op: "publish", Path: name, Err: ErrClosed}
	}
	if err := c.validName(name); err != nil {
		return &PathError{Op: "publish", Path: name, Err: err}
	}
	if !c.nodes.Add(name, data) {
		return &PathError{Op: "publish", Path: name, Err: ErrExists}
	}
	return nil
}

// Unpublish removes the node named name. Once it returns, no new Read or Write
// can reach the node's data.
func (c *Class[T]) Unpublish(name string) error {
	if _, ok := c.nodes.Remove(name); !ok {
		return &PathError{Op: "unpublish", Path: name, Err: ErrNotExist}
	}
	return nil
}

// Len returns the number of published nodes.
func (c *Class[T]) Len() int { return c.nodes.Len() }

// Nodes returns the names of all published nodes, sorted.
func (c *Class[T]) Nodes() []string {
	names := c.nodes.Keys()
	sort.Strings(names)
	return names
}

// Unregister drops every node and disables the class. It returns the sorted
// names of the nodes that were still published. Subsequent calls return nil.
func (c *Class[T]) Unregister() []string {
	c.life.Lock()
	defer c.life.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	var stale []string
	for name := range c.nodes.Clear() {
		stale = append(stale, name)
	}
	sort.Strings(stale)
	return stale
}

// Closed reports whether Unregister has been called.
func (c *Class[T]) Closed() bool {
	c.life.RLock()
	defer c.life.RUnlock()
	return c.closed
}

// Read returns the text of the attribute at path.
func (c *Class[T]) Read(path string) (string, error) {
	if c.Closed() {
		return "", &PathError{Op: "read", Path: path, Err: ErrClosed}
	}
	node, attr, err := splitPath(path)
	if err != nil {
		return "", &PathError{Op: "read", Path: path, Err: err}
	}

	if node == "" {
		a, ok := c.classAttrs[attr]
		if !ok {
			return "", &PathError{Op: "read", Path: path, Err: ErrNotExist}
		}
		if a.Show == nil {
			return "", &PathError{Op: "read", Path: path, Err: ErrPermission}
		}
		text, err := a.Show()
		if err != nil {
			return "", &PathError{Op: "read", Path: path, Err: err}
		}
		return text, nil
	}

	a, data, err := c.nodeAttr(node, attr)
	if err != nil {
		return "", &PathError{Op: "read", Path: path, Err: err}
	}
	if a.Show == nil {
		return "", &PathError{Op: "read", Path: path, Err: ErrPermission}
	}
	text, err := a.Show(data)
	if err != nil {
		return "", &PathError{Op: "read", Path: path, Err: err}
	}
	return text, nil
}

// Write passes text to the attribute at path.
func (c *Class[T]) Write(path, text string) error {
	if c.Closed() {
		return &PathError{Op: "write", Path: path, Err: ErrClosed}
	}
	node, attr, err := splitPath(path)
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}

	if node == "" {
		a, ok := c.classAttrs[attr]
		if !ok {
			return &PathError{Op: "write", Path: path, Err: ErrNotExist}
		}
		if a.Store == nil {
			return &PathError{Op: "write", Path: path, Err: ErrPermission}
		}
		if err := a.Store(text); err != nil {
			return &PathError{Op: "write", Path: path, Err: err}
		}
		return nil
	}

	a, data, err := c.nodeAttr(node, attr)
	if err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	if a.Store == nil {
		return &PathError{Op: "write", Path: path, Err: ErrPermission}
	}
	if err := a.Store(data, text); err != nil {
		return &PathError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// List returns the entries of the class root (dir == "") or of a node.
// The root lists class attributes first, then nodes sorted by name.
func (c *Class[T]) List(dir string) ([]Entry, error) {
	if c.Closed() {
		return nil, &PathError{Op: "list", Path: dir, Err: ErrClosed}
	}
	dir = strings.Trim(dir, "/")

	if dir == "" {
		entries := make([]Entry, 0, len(c.classOrder)+c.nodes.Len())
		for _, name := range c.classOrder {
			entries = append(entries, Entry{Name: name, Mode: c.classAttrs[name].Mode()})
		}
		for _, name := range c.Nodes() {
			entries = append(entries, Entry{Name: name, IsDir: true})
		}
		return entries, nil
	}

	if !c.nodes.Has(dir) {
		return nil, &PathError{Op: "list", Path: dir, Err: ErrNotExist}
	}
	entries := make([]Entry, 0, len(c.nodeOrder))
	for _, name := range c.nodeOrder {
		entries = append(entries, Entry{Name: name, Mode: c.nodeAttrs[name].Mode()})
	}
	return entries, nil
}

func (c *Class[T]) nodeAttr(node, attr string) (Attr[T], T, error) {
	data, ok := c.nodes.Get(node)
	if !ok {
		var zero T
		return Attr[T]{}, zero, ErrNotExist
	}
	a, ok := c.nodeAttrs[attr]
	if !ok {
		var zero T
		return Attr[T]{}, zero, ErrNotExist
	}
	return a, data, nil
}

func (c *Class[T]) validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return ErrInvalidName
	}
	if _, clash := c.classAttrs[name]; clash {
		return ErrInvalidName
	}
	return nil
}

// splitPath splits "attr" into ("", "attr") and "node/attr" into
// ("node", "attr"). Leading and trailing slashes are ignored.
func splitPath(path string) (node, attr string, err error) {
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")
	switch {
	case path == "":
		return "", "", ErrNotExist
	case len(parts) == 1:
		return "", parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	default:
		return "", "", ErrNotExist
	}
}
