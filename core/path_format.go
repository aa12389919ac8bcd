package core

import (
	"strconv"
	"unsafe"
)

// UndefinedUID marks a reference without a known incarnation.
const UndefinedUID int64 = 0

// uidSuffixMargin is the spare capacity left after a serialization
// format for a "#uid" suffix: the separator, a sign and 19 digits.
const uidSuffixMargin = 21

// render writes the root's representation, re-addressed to addr, into a
// buffer with margin bytes of spare capacity.
func (r *RootPath) render(addr Address, margin int) []byte {
	prefix := addr.String()
	n := len(prefix) + len(rootName)
	buf := make([]byte, n, n+margin)
	copy(buf, prefix)
	copy(buf[len(prefix):], rootName)
	return buf
}

// render writes the full path, re-addressed to addr, into a single
// buffer sized from the precomputed offsets, with margin bytes of spare
// capacity. Names are written walking up from the leaf; the root
// representation goes last, at position zero.
func (c *ChildPath) render(addr Address, margin int) []byte {
	prefix := addr.String()
	base := len(prefix) + len(rootName)
	n := base + c.offset + len(c.name)
	buf := make([]byte, n, n+margin)

	p := c
	for {
		at := base + p.offset
		copy(buf[at:], p.name)
		if p != c {
			buf[at+len(p.name)] = '/'
		}
		parent, ok := p.parent.(*ChildPath)
		if !ok {
			break
		}
		p = parent
	}

	copy(buf, prefix)
	copy(buf[len(prefix):], rootName)
	return buf
}

// appendUID adds the "#uid" suffix within buf's spare capacity.
func appendUID(buf []byte, uid int64) string {
	if uid != UndefinedUID {
		buf = append(buf, '#')
		buf = strconv.AppendInt(buf, uid, 10)
	}
	return bytesToString(buf)
}

// bytesToString returns buf as a string without copying it. buf must
// not be written after the call.
func bytesToString(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(buf), len(buf))
}
