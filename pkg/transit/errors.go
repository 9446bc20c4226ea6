package transit

import (
	"errors"
	"fmt"
	"strings"
)

// APIError reports a malformed or error response from the stationboard service.
// The poll loop treats it as transient.
type APIError struct {
	Stop     string
	Status   int
	Messages []string
	Err      error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "API error for %q", e.Stop)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, " "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// ParseError reports a time or delay field that could not be read.
// One bad record invalidates the whole fetch.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigurationError means a connection names a stop that is not configured.
// This is a defect, not a transient failure.
type ConfigurationError struct {
	Stop string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("connection references unconfigured stop %q", e.Stop)
}

// IsRecoverable reports whether err may go away on the next poll.
func IsRecoverable(err error) bool {
	var cfgErr *ConfigurationError
	return err != nil && !errors.As(err, &cfgErr)
}
