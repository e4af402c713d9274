package grammar

import (
	"errors"
	"fmt"
)

// LoadErrorCode categorizes rule-file load failures.
type LoadErrorCode string

const (
	// ErrCodeNotFound indicates a rules file or include target is missing.
	ErrCodeNotFound LoadErrorCode = "NOT_FOUND"

	// ErrCodeMalformedDirective indicates a directive the loader could not
	// parse, such as .include without an argument.
	ErrCodeMalformedDirective LoadErrorCode = "MALFORMED_DIRECTIVE"

	// ErrCodeReadFailed indicates an I/O failure reading an existing file.
	ErrCodeReadFailed LoadErrorCode = "READ_FAILED"
)

// LoadError is a typed load-time failure.
//
// Load errors abort the current Load call but never corrupt rules that were
// already merged into the store. Grammar-content anomalies (undefined
// symbols, dedup exhaustion, recursion overruns) are deliberately NOT errors;
// they degrade to fallback text inside Expand.
type LoadError struct {
	Code LoadErrorCode
	Path string
	Line int // 1-based line number within Path, 0 if not line-specific
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", e.Path, e.Line, e.Code, e.Msg)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is a missing-file load error.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeNotFound
}

// IsMalformedDirective returns true if err is a malformed-directive load error.
func IsMalformedDirective(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Code == ErrCodeMalformedDirective
}
