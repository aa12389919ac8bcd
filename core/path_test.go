package core

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testRoot() *RootPath {
	return NewRootPath(NewLocalAddress("akka", "sys"))
}

func mustDescend(t *testing.T, p Path, names ...string) Path {
	t.Helper()
	d, err := p.Descendant(names...)
	if err != nil {
		t.Fatalf("Descendant(%v): %v", names, err)
	}
	return d
}

func TestChildPathString(t *testing.T) {
	root := testRoot()

	user, err := root.Child("user")
	if err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}
	greeter, err := user.Child("greeter")
	if err != nil {
		t.Fatalf("Failed to create child: %v", err)
	}

	if got := greeter.String(); got != "akka://sys/user/greeter" {
		t.Errorf("Expected 'akka://sys/user/greeter', got '%s'", got)
	}
	if diff := cmp.Diff([]string{"user", "greeter"}, greeter.Elements()); diff != "" {
		t.Errorf("Elements mismatch (-want +got):\n%s", diff)
	}
	if got := greeter.Name(); got != "greeter" {
		t.Errorf("Expected name 'greeter', got '%s'", got)
	}
	if greeter.Depth() != 2 {
		t.Errorf("Expected depth 2, got %d", greeter.Depth())
	}
}

func TestRootPath(t *testing.T) {
	root := testRoot()

	if got := root.String(); got != "akka://sys/" {
		t.Errorf("Expected 'akka://sys/', got '%s'", got)
	}
	if root.Name() != "/" {
		t.Errorf("Expected root name '/', got '%s'", root.Name())
	}
	if len(root.Elements()) != 0 {
		t.Errorf("Expected no elements, got %v", root.Elements())
	}
	if root.Parent() != Path(root) {
		t.Error("Root should be its own parent")
	}
	if root.Root() != root {
		t.Error("Root should be its own root")
	}
	if root.SerializationFormat() != root.String() {
		t.Errorf("Serialization format %q differs from %q", root.SerializationFormat(), root.String())
	}
}

func TestInvalidNames(t *testing.T) {
	root := testRoot()

	tests := []struct {
		name string
		elem string
	}{
		{name: "hash", elem: "a#b"},
		{name: "slash", elem: "a/b"},
		{name: "empty", elem: ""},
		{name: "leading hash", elem: "#a"},
		{name: "trailing slash", elem: "a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			child, err := root.Child(tt.elem)
			if child != nil {
				t.Errorf("Expected no path for %q, got %v", tt.elem, child)
			}
			var nameErr *InvalidNameError
			if !errors.As(err, &nameErr) {
				t.Fatalf("Expected *InvalidNameError, got %v", err)
			}
			if nameErr.Name != tt.elem {
				t.Errorf("Expected error for %q, got %q", tt.elem, nameErr.Name)
			}
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("Expected error to wrap ErrInvalidName")
			}
		})
	}
}

func TestNewChildPathNilParent(t *testing.T) {
	if _, err := NewChildPath(nil, "a"); !errors.Is(err, ErrNilParent) {
		t.Errorf("Expected ErrNilParent, got %v", err)
	}
	var nilChild *ChildPath
	if _, err := NewChildPath(nilChild, "a"); !errors.Is(err, ErrNilParent) {
		t.Errorf("Expected ErrNilParent for typed nil, got %v", err)
	}
}

func TestElementsExtendParent(t *testing.T) {
	root := testRoot()
	paths := []Path{
		mustDescend(t, root, "user"),
		mustDescend(t, root, "user", "a", "b"),
		mustDescend(t, root, "system", "log", "x", "y", "z"),
	}

	for _, p := range paths {
		child := p.(*ChildPath)
		want := append(child.Parent().Elements(), child.Name())
		if diff := cmp.Diff(want, child.Elements()); diff != "" {
			t.Errorf("%s: elements mismatch (-want +got):\n%s", child, diff)
		}
	}
}

func TestRootInvariants(t *testing.T) {
	root := testRoot()
	paths := []Path{
		root,
		mustDescend(t, root, "user"),
		mustDescend(t, root, "user", "a", "b", "c"),
	}

	for _, p := range paths {
		r := p.Root()
		if r != root {
			t.Errorf("%s: unexpected root %s", p, r)
		}
		if r.Parent() != Path(r) || r.Root() != r {
			t.Errorf("%s: root is not self-anchored", p)
		}
		if p.Address() != root.Address() {
			t.Errorf("%s: address %s differs from root address %s", p, p.Address(), root.Address())
		}
	}
}

func TestStringWithAddress(t *testing.T) {
	root := testRoot()
	p := mustDescend(t, root, "user", "greeter")
	remote := NewRemoteAddress("akka", "sys", "10.0.0.7", 2552)

	if got := p.StringWithAddress(p.Address()); got != p.String() {
		t.Errorf("Round trip mismatch: %q != %q", got, p.String())
	}
	if got := root.StringWithAddress(root.Address()); got != root.String() {
		t.Errorf("Root round trip mismatch: %q != %q", got, root.String())
	}

	want := "akka://sys@10.0.0.7:2552/user/greeter"
	if got := p.StringWithAddress(remote); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := p.SerializationFormatWithAddress(remote); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if got := root.StringWithAddress(remote); got != "akka://sys@10.0.0.7:2552/" {
		t.Errorf("Unexpected re-addressed root %q", got)
	}

	// Re-addressing never changes the original.
	if got := p.String(); got != "akka://sys/user/greeter" {
		t.Errorf("Path mutated by re-addressing: %q", got)
	}

	// A shorter address shifts every offset the other way.
	short := NewLocalAddress("a", "s")
	if got := p.StringWithAddress(short); got != "a://s/user/greeter" {
		t.Errorf("Unexpected short re-addressed path %q", got)
	}
}

func TestSerializationFormat(t *testing.T) {
	p := mustDescend(t, testRoot(), "user", "greeter")

	if got := p.SerializationFormat(); got != p.String() {
		t.Errorf("Expected %q, got %q", p.String(), got)
	}
	if got := p.SerializationFormatWithUID(42); got != "akka://sys/user/greeter#42" {
		t.Errorf("Unexpected uid form %q", got)
	}
	if got := p.SerializationFormatWithUID(-9223372036854775808); got != "akka://sys/user/greeter#-9223372036854775808" {
		t.Errorf("Unexpected uid form %q", got)
	}
	if got := p.SerializationFormatWithUID(UndefinedUID); got != p.String() {
		t.Errorf("Undefined uid should add no suffix, got %q", got)
	}
}

func TestDeepPath(t *testing.T) {
	const depth = 100000

	var p Path = testRoot()
	for i := 0; i < depth; i++ {
		child, err := p.Child("n")
		if err != nil {
			t.Fatalf("Failed to create child at depth %d: %v", i, err)
		}
		p = child
	}

	if p.Depth() != depth {
		t.Errorf("Expected depth %d, got %d", depth, p.Depth())
	}
	if len(p.Elements()) != depth {
		t.Errorf("Expected %d elements, got %d", depth, len(p.Elements()))
	}
	if p.Root() == nil {
		t.Fatal("Deep path lost its root")
	}

	s := p.String()
	if want := len("akka://sys/") + depth*2 - 1; len(s) != want {
		t.Errorf("Expected length %d, got %d", want, len(s))
	}
	if !strings.HasSuffix(s, "/n/n") {
		t.Errorf("Unexpected tail %q", s[len(s)-10:])
	}
	if p.Compare(p.Parent()) >= 0 {
		t.Error("Deep path should sort before its parent")
	}
}

func TestSharedParentConcurrentAppend(t *testing.T) {
	parent := mustDescend(t, testRoot(), "user")

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child, err := parent.Child("worker")
			if err != nil {
				t.Errorf("Failed to create child: %v", err)
				return
			}
			results[i] = child.String()
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		if s != "akka://sys/user/worker" {
			t.Errorf("Unexpected path %q", s)
		}
	}
}
