package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the externally visible category of a failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindInternal      Kind = "internal"
)

// Error carries a Kind plus the remote status and body for upstream failures.
type Error struct {
	Kind Kind
	Op   string

	// Status and Body are set for upstream failures that produced a response.
	Status int
	Body   string

	Timeout  bool
	NotFound bool

	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := string(e.Kind) + " error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == KindUpstream && e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: errors.New(msg)}
}

func NotFound(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, NotFound: true, Err: errors.New(msg)}
}

func Configuration(op, msg string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Err: errors.New(msg)}
}

// Upstream wraps a failure of an external collaborator. status is 0 when no
// response was received.
func Upstream(op string, status int, body string, err error) *Error {
	if err == nil {
		err = fmt.Errorf("upstream returned status %d", status)
	}
	return &Error{Kind: KindUpstream, Op: op, Status: status, Body: body, Timeout: isTimeout(err), Err: err}
}

func Internal(op string, err error) *Error {
	if err == nil {
		err = errors.New("internal error")
	}
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

// KindOf reports the category of err. Untyped errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
