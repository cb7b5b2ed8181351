// Package errs defines the failures surfaced by the browser session layer.
//
// Every failure coming out of a backend is converted into an *Error whose Kind is
// one of the exported kinds below. Errors keep the backend error in their chain so
// the library message stays available for diagnostics.
package errs

import (
	"errors"
	"fmt"
)

// ErrAutomation matches every *Error regardless of kind
var ErrAutomation = errors.New("automation error")

// Error kinds
var (
	ErrNotFound     = errors.New("element not found")
	ErrNotClickable = errors.New("element not clickable")
	ErrSelection    = errors.New("option selection failed")
	ErrWindowSwitch = errors.New("window switch failed")
	ErrNavigation   = errors.New("navigation failed")
	ErrSession      = errors.New("browser session failed")
)

// Driver conditions reported by backends. The session translates them into kinds.
var (
	ErrNoSuchElement     = errors.New("no such element")
	ErrStaleElement      = errors.New("stale element reference")
	ErrClickIntercepted  = errors.New("element click intercepted")
	ErrNotInteractable   = errors.New("element not interactable")
	ErrNoSuchWindow      = errors.New("no such window")
	ErrNoSuchOption      = errors.New("no such option")
	ErrNotSelectable     = errors.New("element is not a select control")
	ErrUnsupportedOption = errors.New("unsupported option")
)

// Error is a failure of one session operation
type Error struct {
	Kind    error
	Op      string
	Locator string
	Err     error
}

// New - builds an *Error, target may be empty
func New(kind error, op, target string, err error) *Error {
	return &Error{Kind: kind, Op: op, Locator: target, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Locator != "" {
		msg = fmt.Sprintf("%s: %s (%s)", e.Op, e.Kind.Error(), e.Locator)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind and ErrAutomation
func (e *Error) Is(target error) bool {
	return target == e.Kind || target == ErrAutomation
}

// IsTransient - reports whether a driver condition may clear up by polling again
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoSuchElement) ||
		errors.Is(err, ErrStaleElement) ||
		errors.Is(err, ErrClickIntercepted) ||
		errors.Is(err, ErrNotInteractable)
}
