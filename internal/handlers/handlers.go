package handlers

import (
	"sort"
	"time"
)

// Options is the application-level slice of a listener's extra
// configuration: which handler runs and the knobs it understands. It
// must stay comparable; the reconciliation engine replaces running
// instances when it changes.
type Options struct {
	// Handler selects the registered handler by name.
	Handler string

	// Greeting is written by the hello handler before closing.
	Greeting string

	// IdleTimeout ends an echo session that stays silent this long.
	// Zero means no timeout.
	IdleTimeout time.Duration
}

// DefaultGreeting is used by the hello handler when none is configured.
const DefaultGreeting = "Hello\n"

var tcpHandlers = map[string]TCPHandler{
	"echo":    Echo,
	"hello":   Hello,
	"discard": Discard,
}

var udpHandlers = map[string]UDPHandler{
	"echo": UDPEcho,
}

// TCP returns the TCP handler registered under name.
func TCP(name string) (TCPHandler, bool) {
	h, ok := tcpHandlers[name]
	return h, ok
}

// UDP returns the UDP handler registered under name.
func UDP(name string) (UDPHandler, bool) {
	h, ok := udpHandlers[name]
	return h, ok
}

// TCPNames lists the registered TCP handler names, sorted.
func TCPNames() []string {
	return sortedKeys(tcpHandlers)
}

// UDPNames lists the registered UDP handler names, sorted.
func UDPNames() []string {
	return sortedKeys(udpHandlers)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
