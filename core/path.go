package core

import (
	"log/slog"
	"strings"
)

// rootName is the synthetic name of every RootPath.
const rootName = "/"

// Path is the identity of an actor within the supervision tree.
//
// The only implementations are *RootPath and *ChildPath. Both are
// immutable after construction, so a Path may be shared freely between
// goroutines.
type Path interface {
	// Address returns the address of the node the root is anchored at.
	Address() Address

	// Name returns the last element of the path; "/" for a root.
	Name() string

	// Parent returns the parent path. A root is its own parent.
	Parent() Path

	// Root returns the root this path descends from. A root is its own root.
	Root() *RootPath

	// Elements returns the element names from just below the root down
	// to this path. The root name is never included.
	Elements() []string

	// Depth returns the number of elements; zero for a root.
	Depth() int

	// Child derives the path of a child named name.
	Child(name string) (*ChildPath, error)

	// Descendant derives a path by appending each name in turn.
	Descendant(names ...string) (Path, error)

	// String returns the canonical form, e.g. "akka://sys/user/greeter".
	String() string

	// StringWithAddress renders the path as if its root were anchored
	// at addr. The path itself is not modified.
	StringWithAddress(addr Address) string

	// SerializationFormat returns the form used when a reference to
	// this path crosses a process boundary.
	SerializationFormat() string

	// SerializationFormatWithAddress is SerializationFormat re-addressed
	// to addr.
	SerializationFormatWithAddress(addr Address) string

	// SerializationFormatWithUID appends "#uid" to the serialization
	// format. UndefinedUID produces no suffix.
	SerializationFormatWithUID(uid int64) string

	// Compare orders paths: it returns a negative number, zero or a
	// positive number when this path sorts before, equal to or after
	// other. A nil other sorts after every path.
	Compare(other Path) int

	// Equal reports whether both paths have the same element names and
	// root address.
	Equal(other Path) bool

	// IsAncestorOf reports whether other lies strictly below this path.
	IsAncestorOf(other Path) bool

	sealed()
}

// RootPath anchors the path tree of one actor system.
type RootPath struct {
	address Address

	// str is the canonical form, address followed by "/".
	str string
}

// NewRootPath returns the root path for addr.
func NewRootPath(addr Address) *RootPath {
	return &RootPath{
		address: addr,
		str:     addr.String() + rootName,
	}
}

func (r *RootPath) Address() Address { return r.address }
func (r *RootPath) Name() string { return rootName }
func (r *RootPath) Parent() Path { return r }
func (r *RootPath) Root() *RootPath { return r }
func (r *RootPath) Elements() []string { return []string{} }
func (r *RootPath) Depth() int { return 0 }
func (r *RootPath) String() string { return r.str }

func (r *RootPath) Child(name string) (*ChildPath, error) {
	return NewChildPath(r, name)
}

func (r *RootPath) Descendant(names ...string) (Path, error) {
	return descend(r, names)
}

func (r *RootPath) StringWithAddress(addr Address) string {
	if addr == r.address {
		return r.str
	}
	return addr.String() + rootName
}

func (r *RootPath) SerializationFormat() string {
	return r.str
}

func (r *RootPath) SerializationFormatWithAddress(addr Address) string {
	return r.StringWithAddress(addr)
}

func (r *RootPath) SerializationFormatWithUID(uid int64) string {
	return appendUID(r.render(r.address, uidSuffixMargin), uid)
}

func (r *RootPath) Compare(other Path) int { return comparePaths(r, other) }
func (r *RootPath) Equal(other Path) bool { return equalPaths(r, other) }
func (r *RootPath) IsAncestorOf(other Path) bool { return isAncestor(r, other) }

// LogValue renders the path as its canonical string in structured logs.
func (r *RootPath) LogValue() slog.Value { return slog.StringValue(r.str) }

func (r *RootPath) sealed() {}

// ChildPath is a path one element below its parent.
type ChildPath struct {
	parent Path
	name   string

	// offset is where name starts in the rendered path, counted from the
	// end of the root's representation. The first child below a root
	// starts at 0.
	offset int

	depth int
}

// NewChildPath returns the path of the child name of parent. It fails
// with an *InvalidNameError when name is empty or contains "/" or "#".
func NewChildPath(parent Path, name string) (*ChildPath, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	c := &ChildPath{parent: parent, name: name, depth: 1}
	switch p := parent.(type) {
	case *RootPath:
		if p == nil {
			return nil, ErrNilParent
		}
	case *ChildPath:
		if p == nil {
			return nil, ErrNilParent
		}
		c.offset = p.offset + len(p.name) + 1
		c.depth = p.depth + 1
	default:
		return nil, ErrNilParent
	}
	return c, nil
}

// ValidateName checks that name can be used as a path element.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "must not be empty"}
	case strings.IndexByte(name, '/') >= 0:
		return &InvalidNameError{Name: name, Reason: `must not contain "/"`}
	case strings.IndexByte(name, '#') >= 0:
		return &InvalidNameError{Name: name, Reason: `must not contain "#"`}
	}
	return nil
}

func (c *ChildPath) Address() Address { return c.Root().address }
func (c *ChildPath) Name() string { return c.name }
func (c *ChildPath) Parent() Path { return c.parent }
func (c *ChildPath) Depth() int { return c.depth }

func (c *ChildPath) Root() *RootPath {
	p := c
	for {
		switch parent := p.parent.(type) {
		case *ChildPath:
			p = parent
		case *RootPath:
			return parent
		}
	}
}

func (c *ChildPath) Elements() []string {
	elems := make([]string, c.depth)
	p := c
	for i := c.depth - 1; ; i-- {
		elems[i] = p.name
		parent, ok := p.parent.(*ChildPath)
		if !ok {
			return elems
		}
		p = parent
	}
}

func (c *ChildPath) Child(name string) (*ChildPath, error) {
	return NewChildPath(c, name)
}

func (c *ChildPath) Descendant(names ...string) (Path, error) {
	return descend(c, names)
}

func (c *ChildPath) String() string {
	return bytesToString(c.render(c.Address(), 0))
}

func (c *ChildPath) StringWithAddress(addr Address) string {
	return bytesToString(c.render(addr, 0))
}

func (c *ChildPath) SerializationFormat() string {
	return bytesToString(c.render(c.Address(), uidSuffixMargin))
}

func (c *ChildPath) SerializationFormatWithAddress(addr Address) string {
	return bytesToString(c.render(addr, uidSuffixMargin))
}

func (c *ChildPath) SerializationFormatWithUID(uid int64) string {
	return appendUID(c.render(c.Address(), uidSuffixMargin), uid)
}

func (c *ChildPath) Compare(other Path) int { return comparePaths(c, other) }
func (c *ChildPath) Equal(other Path) bool { return equalPaths(c, other) }
func (c *ChildPath) IsAncestorOf(other Path) bool { return isAncestor(c, other) }

// LogValue renders the path as its canonical string in structured logs.
func (c *ChildPath) LogValue() slog.Value { return slog.StringValue(c.String()) }

func (c *ChildPath) sealed() {}

func descend(p Path, names []string) (Path, error) {
	for _, name := range names {
		child, err := NewChildPath(p, name)
		if err != nil {
			return nil, err
		}
		p = child
	}
	return p, nil
}
