// Package listener provides the TCP and UDP resource implementations
// plugged into the reconciliation engine: the Address descriptor, the
// socket builders, and the instance runners that turn a shared socket
// plus extra configuration into an instance task.
package listener
