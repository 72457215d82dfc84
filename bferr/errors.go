// Package bferr defines the error taxonomy shared by the bfgo pipeline.
package bferr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeUnsupported ErrorType = "UnsupportedConstruct"
	TypeEncoding    ErrorType = "InputEncoding"
	TypeBrackets    ErrorType = "UnbalancedBrackets"
	TypeFormat      ErrorType = "FormatFailure"
	TypeRuntime     ErrorType = "RuntimeFault"
	TypeConfig      ErrorType = "ConfigError"
)

// BfError is the interface for all bfgo errors.
type BfError interface {
	error
	Type() ErrorType
}

// BaseError provides common fields for bfgo errors.
type BaseError struct {
	Msg     string
	ErrType ErrorType
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

// BracketError reports a loop marker without a partner.
type BracketError struct {
	BaseError
	Line   int
	Column int
	Offset int
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("[%s] line %d:%d %s", e.ErrType, e.Line, e.Column, e.Msg)
}

// FormatError reports a failed external formatter run.
type FormatError struct {
	BaseError
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("[%s] %s exited with status %d", e.ErrType, e.Tool, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// RuntimeError is raised by the interpreter while executing a program.
type RuntimeError struct {
	BaseError
	CodePos int
	Pointer int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[%s] at code position %d (pointer %d): %s", e.ErrType, e.CodePos, e.Pointer, e.Msg)
}

// MultiError collects multiple bfgo errors.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) occurred:\n", len(m.Errors)))
	for _, err := range m.Errors {
		sb.WriteString(fmt.Sprintf("- %v\n", err))
	}
	return sb.String()
}

func (m *MultiError) Type() ErrorType {
	if len(m.Errors) > 0 {
		if be, ok := m.Errors[0].(BfError); ok {
			return be.Type()
		}
	}
	return "MultiError"
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// NewUnsupportedError creates an error for a construct the generator refuses to lower.
func NewUnsupportedError(msg string) *BaseError {
	return &BaseError{Msg: msg, ErrType: TypeUnsupported}
}

// NewEncodingError creates an error for input outside the interpreter's byte alphabet.
func NewEncodingError(msg string) *BaseError {
	return &BaseError{Msg: msg, ErrType: TypeEncoding}
}

// NewConfigError creates an error for an invalid generator or interpreter setting.
func NewConfigError(msg string) *BaseError {
	return &BaseError{Msg: msg, ErrType: TypeConfig}
}

// NewBracketError creates a BracketError at the given source position.
func NewBracketError(line, column, offset int, msg string) *BracketError {
	return &BracketError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeBrackets,
		},
		Line:   line,
		Column: column,
		Offset: offset,
	}
}

// NewFormatError creates a FormatError for the given tool and exit status.
func NewFormatError(tool string, exitCode int, stderr string) *FormatError {
	return &FormatError{
		BaseError: BaseError{
			Msg:     "formatter failed",
			ErrType: TypeFormat,
		},
		Tool:     tool,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// NewRuntimeError creates a RuntimeError at the given interpreter state.
func NewRuntimeError(codePos, pointer int, msg string) *RuntimeError {
	return &RuntimeError{
		BaseError: BaseError{
			Msg:     msg,
			ErrType: TypeRuntime,
		},
		CodePos: codePos,
		Pointer: pointer,
	}
}

// IsType reports whether the first bfgo error in err's chain has the given category.
func IsType(err error, t ErrorType) bool {
	var be BfError
	return errors.As(err, &be) && be.Type() == t
}
