package core

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultProtocol is the protocol used by addresses built from config
// when none is given.
const DefaultProtocol = "akka"

// Address identifies the node an actor system runs on.
//
// Address is a comparable value type. The constructors do not check
// their arguments; Validate reports whether an address renders to a
// form ParseAddress accepts. Equal compares canonical strings.
type Address struct {
	protocol string
	system   string
	host     string
	port     int

	// str caches the canonical form; it is derived from the fields
	// above so it never breaks == equality.
	str string
}

// NewLocalAddress returns the address of a system with no network
// location, rendered as "protocol://system".
func NewLocalAddress(protocol, system string) Address {
	a := Address{protocol: protocol, system: system}
	a.str = a.render()
	return a
}

// NewRemoteAddress returns the address of a system reachable at
// host:port, rendered as "protocol://system@host:port". An empty host
// yields the local address and the port is dropped.
func NewRemoteAddress(protocol, system, host string, port int) Address {
	if host == "" {
		return NewLocalAddress(protocol, system)
	}
	a := Address{protocol: protocol, system: system, host: host, port: port}
	a.str = a.render()
	return a
}

// Protocol returns the address protocol, e.g. "akka".
func (a Address) Protocol() string { return a.protocol }

// System returns the actor system name.
func (a Address) System() string { return a.system }

// Host returns the host, or "" for a local address.
func (a Address) Host() string { return a.host }

// Port returns the port, or 0 for a local address.
func (a Address) Port() int { return a.port }

// HasGlobalScope reports whether the address carries a host and port.
func (a Address) HasGlobalScope() bool { return a.host != "" }

// HostPort returns "system@host:port" or just "system" for a local
// address.
func (a Address) HostPort() string {
	if !a.HasGlobalScope() {
		return a.system
	}
	return a.system + "@" + a.host + ":" + strconv.Itoa(a.port)
}

// String returns the canonical form of the address.
func (a Address) String() string {
	return a.str
}

// Equal reports whether a and other denote the same node.
func (a Address) Equal(other Address) bool {
	return a.str == other.str
}

// Validate checks that the fields cannot be confused with the address
// delimiters and that a remote address has a usable port.
func (a Address) Validate() error {
	switch {
	case a.protocol == "" || strings.ContainsAny(a.protocol, ":/@#"):
		return fmt.Errorf("%w: bad protocol %q", ErrInvalidAddress, a.protocol)
	case a.system == "" || strings.ContainsAny(a.system, "/@#"):
		return fmt.Errorf("%w: bad system name %q", ErrInvalidAddress, a.system)
	case !a.HasGlobalScope():
		return nil
	case strings.ContainsAny(a.host, "/@#"):
		return fmt.Errorf("%w: bad host %q", ErrInvalidAddress, a.host)
	case a.port <= 0 || a.port > 65535:
		return fmt.Errorf("%w: bad port %d", ErrInvalidAddress, a.port)
	}
	return nil
}

func (a Address) render() string {
	return a.protocol + "://" + a.HostPort()
}

// ParseAddress parses the canonical address form produced by
// Address.String. Anything after the authority (a path) is rejected.
func ParseAddress(s string) (Address, error) {
	addr, rest, err := splitAddress(s)
	if err != nil {
		return Address{}, err
	}
	if rest != "" {
		return Address{}, fmt.Errorf("%w: unexpected path %q in %q", ErrInvalidAddress, rest, s)
	}
	return addr, nil
}

// splitAddress parses the address prefix of s and returns whatever
// follows the authority, starting at the first "/".
func splitAddress(s string) (Address, string, error) {
	protocol, remainder, ok := strings.Cut(s, "://")
	if !ok || protocol == "" {
		return Address{}, "", fmt.Errorf("%w: missing protocol in %q", ErrInvalidAddress, s)
	}

	authority, rest := remainder, ""
	if i := strings.IndexByte(remainder, '/'); i >= 0 {
		authority, rest = remainder[:i], remainder[i:]
	}

	system, hostPort, remote := strings.Cut(authority, "@")
	if system == "" {
		return Address{}, "", fmt.Errorf("%w: missing system name in %q", ErrInvalidAddress, s)
	}
	if !remote {
		addr := NewLocalAddress(protocol, system)
		if err := addr.Validate(); err != nil {
			return Address{}, "", fmt.Errorf("%w (in %q)", err, s)
		}
		return addr, rest, nil
	}

	i := strings.LastIndexByte(hostPort, ':')
	if i <= 0 {
		return Address{}, "", fmt.Errorf("%w: missing host or port in %q", ErrInvalidAddress, s)
	}
	port, err := strconv.Atoi(hostPort[i+1:])
	if err != nil || port <= 0 || port > 65535 {
		return Address{}, "", fmt.Errorf("%w: bad port in %q", ErrInvalidAddress, s)
	}
	addr := NewRemoteAddress(protocol, system, hostPort[:i], port)
	if err := addr.Validate(); err != nil {
		return Address{}, "", fmt.Errorf("%w (in %q)", err, s)
	}
	return addr, rest, nil
}
