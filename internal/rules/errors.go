package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks a malformed value or block structure.
	ErrFormat = errors.New("format error")
	// ErrUnexpectedEOF marks a chunk block left open at end of input.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrRange marks chunk count bounds that cannot be sampled.
	ErrRange = errors.New("invalid chunk count range")
)

// ParseError reports where a rule file failed to load.
type ParseError struct {
	Line  int    // 1-based line number, 0 when the error is not tied to a line
	Tag   string // Tag or block marker involved
	Value string
	Err   error // One of ErrFormat, ErrUnexpectedEOF, ErrRange
	Cause error // Underlying conversion error, if any
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Line > 0 {
		return fmt.Sprintf("rules: line %d: %s=%q: %s", e.Line, e.Tag, e.Value, msg)
	}
	return fmt.Sprintf("rules: %s=%q: %s", e.Tag, e.Value, msg)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}
