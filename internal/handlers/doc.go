// Package handlers ships the built-in connection and packet handlers
// that listeners select by name from configuration. The engine itself
// is agnostic to what a handler does; these exist so a configured
// listener has something useful to run.
package handlers
