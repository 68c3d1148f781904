package exec

import (
	"errors"

	"github.com/NilFoundation/vvm/internal/types"
)

// ErrorOrigin tells a caller whether a failure happened in its own execution context or in
// the contract it called into.
type ErrorOrigin int

const (
	// OriginCaller is a failure detected by the engine itself, before or after running the
	// called code: a failed transfer, an unknown destination, an exhausted depth.
	OriginCaller ErrorOrigin = iota
	// OriginCallee is a failure raised while the called code was running.
	OriginCallee
)

func (o ErrorOrigin) String() string {
	if o == OriginCallee {
		return "Callee"
	}
	return "Caller"
}

// Error is the failure of a call or instantiation.
type Error struct {
	Err    error
	Origin ErrorOrigin
}

func (e *Error) Error() string {
	return e.Origin.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the error code of the underlying failure.
func (e *Error) Code() types.ErrorCode {
	return types.GetErrorCode(e.Err)
}

func newError(err error, origin ErrorOrigin) *Error {
	var execErr *Error
	if errors.As(err, &execErr) {
		err = execErr.Err
	}
	return &Error{Err: err, Origin: origin}
}

func callerError(err error) *Error {
	return newError(err, OriginCaller)
}

func calleeError(err error) *Error {
	return newError(err, OriginCallee)
}

// OriginOf returns the origin of a failure returned by the engine. Errors that did not pass
// through the engine are attributed to the caller.
func OriginOf(err error) ErrorOrigin {
	var execErr *Error
	if errors.As(err, &execErr) {
		return execErr.Origin
	}
	return OriginCaller
}
