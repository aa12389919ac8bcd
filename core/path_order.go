package core

import (
	"sort"
	"strings"
)

// comparePaths walks both paths from the leaf upward in lock-step. The
// first differing name decides, so names nearer the leaf dominate. A
// root sorts after any child; two roots compare by their string form.
// A nil b sorts after every path.
func comparePaths(a, b Path) int {
	if b == nil {
		return -1
	}
	for {
		ca, aChild := a.(*ChildPath)
		cb, bChild := b.(*ChildPath)
		switch {
		case aChild && bChild:
			if ca == cb {
				return 0
			}
			if c := strings.Compare(ca.name, cb.name); c != 0 {
				return c
			}
			a, b = ca.parent, cb.parent
		case aChild:
			return -1
		case bChild:
			return 1
		default:
			return strings.Compare(a.String(), b.String())
		}
	}
}

func equalPaths(a, b Path) bool {
	for {
		if a == b {
			return true
		}
		ca, aChild := a.(*ChildPath)
		cb, bChild := b.(*ChildPath)
		switch {
		case aChild && bChild:
			if ca.depth != cb.depth || ca.name != cb.name {
				return false
			}
			a, b = ca.parent, cb.parent
		case aChild || bChild:
			return false
		default:
			ra, _ := a.(*RootPath)
			rb, _ := b.(*RootPath)
			return ra != nil && rb != nil && ra.address.Equal(rb.address)
		}
	}
}

func isAncestor(p, other Path) bool {
	if other == nil {
		return false
	}
	depth := p.Depth()
	if other.Depth() <= depth {
		return false
	}
	for other.Depth() > depth {
		other = other.Parent()
	}
	return equalPaths(p, other)
}

// SortPaths sorts paths in place by Compare.
func SortPaths(paths []Path) {
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Compare(paths[j]) < 0
	})
}
