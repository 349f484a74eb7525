package recon

import "fmt"

// DiagLevel classifies a diagnostic produced during a reconciliation pass.
type DiagLevel int

const (
	DiagWarning DiagLevel = iota
	DiagError
)

// String makes DiagLevel satisfy the fmt.Stringer interface.
func (l DiagLevel) String() string {
	switch l {
	case DiagWarning:
		return "warning"
	case DiagError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one leveled message tied to a pass or to a single
// descriptor within it.
type Diagnostic struct {
	Level   DiagLevel
	Message string
}

// String renders the diagnostic for logs and CLI output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// Diagnostics accumulates the warnings and errors of one reconciliation
// pass. The zero value is ready to use.
type Diagnostics struct {
	entries []Diagnostic
}

// Warningf records a warning-level diagnostic.
func (d *Diagnostics) Warningf(format string, args ...interface{}) {
	d.entries = append(d.entries, Diagnostic{Level: DiagWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error-level diagnostic.
func (d *Diagnostics) Errorf(format string, args ...interface{}) {
	d.entries = append(d.entries, Diagnostic{Level: DiagError, Message: fmt.Sprintf(format, args...)})
}

// Merge appends all entries of other, preserving order.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.entries = append(d.entries, other.entries...)
}

// Entries returns the recorded diagnostics in the order they occurred.
func (d Diagnostics) Entries() []Diagnostic {
	return d.entries
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (d Diagnostics) HasErrors() bool {
	for _, e := range d.entries {
		if e.Level == DiagError {
			return true
		}
	}
	return false
}

// Empty reports whether no diagnostics were recorded at all.
func (d Diagnostics) Empty() bool {
	return len(d.entries) == 0
}
