// Package apperr holds the error kinds shared by stages and entry points.
package apperr

import (
	"errors"
	"fmt"
)

// InputError reports a missing or malformed field in a request body.
// It is a client fault and is never retried.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("'%s' key should be included in the body", e.Field)
	}
	return fmt.Sprintf("invalid '%s': %s", e.Field, e.Reason)
}

// Missing returns an InputError for an absent required field.
func Missing(field string) error {
	return &InputError{Field: field}
}

// ToolError reports a failed external subprocess or inference engine run.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Tool wraps err as a ToolError for the named tool. A nil err stays nil.
func Tool(tool string, err error) error {
	if err == nil {
		return nil
	}
	return &ToolError{Tool: tool, Err: err}
}

// IsInput reports whether err is, or wraps, an InputError.
func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// IsTool reports whether err is, or wraps, a ToolError.
func IsTool(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}
