package errors

import (
	"fmt"
	"strings"
)

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnreadableFileError reports an upload that could not be parsed as any
// supported tabular format.
type UnreadableFileError struct {
	File string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("%s: unreadable file: %v", e.File, e.Err)
}

func (e *UnreadableFileError) Unwrap() []error {
	return []error{ErrUnreadableFile, e.Err}
}

// MissingColumnError lists required canonical fields that no alias or
// positional column matched, along with the headers actually found.
type MissingColumnError struct {
	File    string
	Missing []string
	Found   []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required columns [%s] (found: %s)",
		e.File, strings.Join(e.Missing, ", "), quoteAll(e.Found))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// JoinKeyError reports an interaction file without the agent identifier,
// which makes the roster join impossible. Missing lists every required field
// the file lacks, the join key included.
type JoinKeyError struct {
	File    string
	Key     string
	Missing []string
	Found   []string
}

func (e *JoinKeyError) Error() string {
	return fmt.Sprintf("%s: join key %q not found, missing required columns [%s] (found: %s)",
		e.File, e.Key, strings.Join(e.Missing, ", "), quoteAll(e.Found))
}

func (e *JoinKeyError) Unwrap() error {
	return ErrJoinKey
}

// TypeCoercionWarning is a non-fatal note that a cell failed numeric
// coercion and was replaced with zero.
type TypeCoercionWarning struct {
	File   string
	Row    int
	Column string
	Value  string
}

func (w TypeCoercionWarning) Error() string {
	return fmt.Sprintf("%s: row %d: %s value %q is not numeric, using 0", w.File, w.Row, w.Column, w.Value)
}

func (w TypeCoercionWarning) Unwrap() error {
	return ErrTypeCoercion
}

// Define specific error types for better error handling
var (
	ErrUnreadableFile   = fmt.Errorf("unreadable file")
	ErrMissingColumn    = fmt.Errorf("missing column")
	ErrJoinKey          = fmt.Errorf("join key missing")
	ErrTypeCoercion     = fmt.Errorf("type coercion")
	ErrEmptyFile        = fmt.Errorf("empty file")
	ErrUnsupportedType  = fmt.Errorf("unsupported file type")
	ErrInvalidColumnRef = fmt.Errorf("invalid column letter")
	ErrColumnOutOfRange = fmt.Errorf("column out of range")
)

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
