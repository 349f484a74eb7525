// Package app assembles the daemon: it loads configuration, builds the
// per-protocol reconciliation engines, runs the installer loops on the
// shared executor and drives reloads from SIGHUP and config file
// changes.
package app
