/*
PURPOSE:
  Error taxonomy shared by every package, and the exit code for each kind.

ARCHITECTURE INTEGRATION:
  - Used by: all internal packages, cmd/frame-runner/main.go (ExitCode)

IMPLEMENTATION RULES:
  - Check kinds with errors.Is(err, model.<Kind>), never by message.
  - Exit codes are part of the CLI contract; append new kinds, do not renumber.
*/

package model

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure. Each kind maps to its own process exit code.
type Kind int

const (
	Unknown Kind = iota
	ConfigurationMissing
	InvalidPath
	ProcessStartFailure
	ReadinessTimeout
	IOFailure
	NoResultFound
	AmbiguousResult
	ToggleStateError
	MissingField
	Cancelled
)

type kindInfo struct {
	name string
	code int
}

var kinds = map[Kind]kindInfo{
	Unknown:              {"unknown error", 1},
	ConfigurationMissing: {"configuration missing", 2},
	InvalidPath:          {"invalid path", 3},
	ProcessStartFailure:  {"process start failure", 4},
	ReadinessTimeout:     {"readiness timeout", 5},
	IOFailure:            {"i/o failure", 6},
	NoResultFound:        {"no result found", 7},
	AmbiguousResult:      {"ambiguous result", 8},
	ToggleStateError:     {"toggle state error", 9},
	MissingField:         {"missing field", 10},
	Cancelled:            {"cancelled", 130},
}

func (k Kind) String() string {
	if ki, ok := kinds[k]; ok {
		return ki.name
	}
	return kinds[Unknown].name
}

// Error lets a Kind act as a sentinel for errors.Is.
func (k Kind) Error() string {
	return k.String()
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Errorf builds a classified error with a formatted cause.
func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies err. A nil err stays nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost classified error in err's chain.
// Context cancellation is reported as Cancelled.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	return Unknown
}

// ExitCode maps err to the process exit code for its kind.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return kinds[KindOf(err)].code
}
