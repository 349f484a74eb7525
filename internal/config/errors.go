package config

import (
	"fmt"
	"strings"
)

// ValidationError collects everything wrong with one loaded
// configuration. It is returned by Validate so callers can surface all
// problems at once instead of fixing them one reload at a time.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid configuration: %s", e.Problems[0])
	}
	return fmt.Sprintf("invalid configuration (%d problems): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *ValidationError) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
