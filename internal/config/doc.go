// Package config defines rebind's yaml configuration: the listener
// descriptions the reconciliation engine is driven by, plus logging
// settings. The loader applies defaults and validates structurally
// before anything touches a socket; per-listener conditions the engine
// tolerates (such as an explicit scale of zero) surface later as
// reconciliation diagnostics instead.
package config
