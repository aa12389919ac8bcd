package core

import (
	"errors"
	"testing"
)

func TestAddressString(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{name: "local", addr: NewLocalAddress("akka", "sys"), want: "akka://sys"},
		{name: "remote", addr: NewRemoteAddress("akka", "sys", "10.0.0.1", 2552), want: "akka://sys@10.0.0.1:2552"},
		{name: "other protocol", addr: NewRemoteAddress("pekko", "game", "example.org", 8080), want: "pekko://game@example.org:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("Address.String() = %q, want %q", got, tt.want)
			}
			parsed, err := ParseAddress(tt.want)
			if err != nil {
				t.Fatalf("ParseAddress(%q): %v", tt.want, err)
			}
			if parsed != tt.addr || !parsed.Equal(tt.addr) {
				t.Errorf("ParseAddress(%q) = %v, want %v", tt.want, parsed, tt.addr)
			}
		})
	}
}

func TestAddressScope(t *testing.T) {
	local := NewLocalAddress("akka", "sys")
	remote := NewRemoteAddress("akka", "sys", "h", 1)

	if local.HasGlobalScope() {
		t.Error("Local address should not have global scope")
	}
	if !remote.HasGlobalScope() {
		t.Error("Remote address should have global scope")
	}
	if local.Equal(remote) {
		t.Error("Local and remote addresses should differ")
	}
	if remote.HostPort() != "sys@h:1" {
		t.Errorf("Unexpected HostPort %q", remote.HostPort())
	}
}

func TestParseAddressErrors(t *testing.T) {
	inputs := []string{
		"",
		"sys",
		"://sys",
		"akka://",
		"akka://@host:1",
		"akka://sys@host",
		"akka://sys@:1",
		"akka://sys@host:0",
		"akka://sys@host:70000",
		"akka://sys@host:port",
		"akka://sys/user",
		"akka://sys#5",
		"akka://sy#s@host:1",
		"akka://sys@ho#st:1",
		"ak/ka://sys",
	}

	for _, in := range inputs {
		if _, err := ParseAddress(in); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ParseAddress(%q) error = %v, want ErrInvalidAddress", in, err)
		}
	}
}

func TestRemoteAddressWithoutHostIsLocal(t *testing.T) {
	local := NewLocalAddress("akka", "sys")
	remote := NewRemoteAddress("akka", "sys", "", 5)

	if remote != local || !remote.Equal(local) {
		t.Errorf("NewRemoteAddress with empty host = %#v, want %#v", remote, local)
	}
	if remote.Port() != 0 || remote.HasGlobalScope() {
		t.Errorf("Expected a local address, got %q port %d", remote, remote.Port())
	}

	a, b := NewRootPath(local), NewRootPath(remote)
	if a.Compare(b) != 0 || !a.Equal(b) {
		t.Errorf("Roots %s and %s: Compare=%d Equal=%v", a, b, a.Compare(b), a.Equal(b))
	}
}

func TestAddressValidate(t *testing.T) {
	tests := []struct {
		name    string
		addr    Address
		wantErr bool
	}{
		{name: "local", addr: NewLocalAddress("akka", "sys")},
		{name: "remote", addr: NewRemoteAddress("akka", "sys", "10.0.0.1", 2552)},
		{name: "ipv6 host", addr: NewRemoteAddress("akka", "sys", "::1", 2552)},
		{name: "zero port", addr: NewRemoteAddress("akka", "sys", "h", 0), wantErr: true},
		{name: "negative port", addr: NewRemoteAddress("akka", "sys", "h", -1), wantErr: true},
		{name: "port out of range", addr: NewRemoteAddress("akka", "sys", "h", 70000), wantErr: true},
		{name: "empty protocol", addr: NewLocalAddress("", "sys"), wantErr: true},
		{name: "empty system", addr: NewLocalAddress("akka", ""), wantErr: true},
		{name: "slash in system", addr: NewLocalAddress("akka", "a/b"), wantErr: true},
		{name: "hash in system", addr: NewLocalAddress("akka", "sys#5"), wantErr: true},
		{name: "at in system", addr: NewLocalAddress("akka", "a@b"), wantErr: true},
		{name: "hash in host", addr: NewRemoteAddress("akka", "sys", "h#1", 1), wantErr: true},
		{name: "at in host", addr: NewRemoteAddress("akka", "sys", "a@b", 1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.addr.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate(%q) = %v", tt.addr, err)
				}
				if _, perr := ParseAddress(tt.addr.String()); perr != nil {
					t.Errorf("ParseAddress(%q) = %v for a valid address", tt.addr, perr)
				}
				return
			}
			if !errors.Is(err, ErrInvalidAddress) {
				t.Errorf("Validate(%q) = %v, want ErrInvalidAddress", tt.addr, err)
			}
			if _, perr := ParseAddress(tt.addr.String()); perr == nil {
				t.Errorf("ParseAddress(%q) accepted an address Validate rejects", tt.addr)
			}
		})
	}
}
