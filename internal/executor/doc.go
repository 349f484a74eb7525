// Package executor selects and wraps the concurrent task runtime shared
// by the whole process.
//
// Three variants exist: the default pooled executor (goroutine per task,
// optionally bounded), a serial executor that runs tasks one at a time
// in submission order for deterministic testing, and a custom executor
// driven by a caller-supplied spawn function.
//
// Exactly one variant is active per process. Registration is
// first-wins: if the hosting application already selected a variant,
// later default registrations are no-ops.
package executor
