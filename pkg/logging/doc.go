// Package logging provides the subsystem-keyed logging facility used by
// every component of rebind.
//
// It is a thin wrapper around log/slog with a text handler. Each call
// site names the subsystem it belongs to (for example "Reconciler" or
// "Installer"), which shows up as a structured attribute on the log
// line and makes it possible to follow one component through a mixed
// log stream.
//
// Init must be called once during bootstrap before any other function
// in this package.
package logging
