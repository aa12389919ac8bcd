package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses the canonical or serialization form of a path, such
// as "akka://sys@host:2552/user/greeter#42". The uid fragment is
// optional; UndefinedUID is returned when it is absent. The returned
// path hangs off a fresh RootPath for the parsed address.
func ParsePath(s string) (Path, int64, error) {
	addr, rest, err := splitAddress(s)
	if err != nil {
		return nil, UndefinedUID, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	uid := UndefinedUID
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		uid, err = strconv.ParseInt(rest[i+1:], 10, 64)
		if err != nil {
			return nil, UndefinedUID, fmt.Errorf("%w: bad uid in %q", ErrInvalidPath, s)
		}
		rest = rest[:i]
	}

	root := NewRootPath(addr)
	if rest == "" || rest == rootName {
		return root, uid, nil
	}

	p, err := root.Descendant(strings.Split(rest[1:], "/")...)
	if err != nil {
		return nil, UndefinedUID, fmt.Errorf("%w: %q: %w", ErrInvalidPath, s, err)
	}
	return p, uid, nil
}

// MustParsePath is like ParsePath but panics on error and drops the uid.
// It is intended for tests and static initialisation.
func MustParsePath(s string) Path {
	p, _, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}
