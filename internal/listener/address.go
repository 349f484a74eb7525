package listener

import (
	"fmt"
	"net"
	"strconv"
)

// DefaultHost is the wildcard interface listeners bind to when the
// configuration names none.
const DefaultHost = "::"

// Address describes one listening interface and port. It is the
// descriptor the reconciliation engine diffs on: immutable, cheap to
// compare and copy, superseded (never mutated) by a newer value on
// configuration reload.
type Address struct {
	Host string
	Port uint16
}

// String renders the address as host:port, used as the descriptor label
// in logs and diagnostics.
func (a Address) String() string {
	return net.JoinHostPort(a.host(), strconv.Itoa(int(a.Port)))
}

func (a Address) host() string {
	if a.Host == "" {
		return DefaultHost
	}
	return a.Host
}

// BuildTCP binds the TCP listening socket described by the address. The
// returned listener is shared read-only across all scaled instances.
func BuildTCP(a Address) (*net.TCPListener, error) {
	ln, err := net.Listen("tcp", a.String())
	if err != nil {
		return nil, fmt.Errorf("bind tcp %s: %w", a, err)
	}
	return ln.(*net.TCPListener), nil
}

// BuildUDP binds the UDP socket described by the address.
func BuildUDP(a Address) (*net.UDPConn, error) {
	pc, err := net.ListenPacket("udp", a.String())
	if err != nil {
		return nil, fmt.Errorf("bind udp %s: %w", a, err)
	}
	return pc.(*net.UDPConn), nil
}
