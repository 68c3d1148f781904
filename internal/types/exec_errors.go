package types

import (
	"errors"

	"github.com/NilFoundation/vvm/common/check"
)

// This file contains the errors of the execution phase. Each error is uniquely identified by an
// integer number (ErrorCode), which is what the dispatch layer records for a failed call.
//
// To add an error just add a new `ErrorCode` constant (and its name in errorcode_string.go) and
// use it like this: `types.NewError(types.ErrorSomeNewError)`.

type ErrorCode uint32

const (
	ErrorSuccess ErrorCode = iota
	ErrorUnknown

	// ErrorOutOfGas is returned when a meter has not enough gas left to cover a charge or to
	// carve out a nested budget.
	ErrorOutOfGas

	// ErrorNotCallable is returned when the called account has no contract or the contract was
	// removed in the middle of the stack.
	ErrorNotCallable

	// ErrorMaxCallDepthReached is returned when a nested call would exceed the maximal depth.
	ErrorMaxCallDepthReached

	// ErrorBelowSubsistenceThreshold is returned when a contract tries to transfer so much that
	// its balance would drop below the subsistence threshold.
	ErrorBelowSubsistenceThreshold

	// ErrorTransferFailed is returned when the ledger refused a transfer.
	ErrorTransferFailed

	// ErrorTerminatedInConstructor is returned when a contract terminates itself inside of its
	// own constructor.
	ErrorTerminatedInConstructor

	// ErrorNewContractNotFunded is returned when a freshly constructed contract does not hold
	// the subsistence threshold.
	ErrorNewContractNotFunded

	// ErrorReentranceDenied is returned when terminate is called by a contract that is present
	// on the call stack more than once.
	ErrorReentranceDenied

	// ErrorDuplicateContract is returned when a contract already lives at the derived address.
	ErrorDuplicateContract

	// ErrorValueTooLarge is returned when a storage value exceeds the configured size.
	ErrorValueTooLarge

	// ErrorCodeNotFound is returned when there is no code stored for a code hash.
	ErrorCodeNotFound

	// ErrorCodeTooLarge is returned when uploaded code exceeds the configured size.
	ErrorCodeTooLarge

	// ErrorRestorationUnsupported is returned by RestoreTo: tombstones are never created by
	// this engine, so there is nothing to restore.
	ErrorRestorationUnsupported

	// ErrorInsufficientBalance is returned by the ledger when the sender has not enough funds.
	ErrorInsufficientBalance

	// ErrorExistentialDeposit is returned by the ledger when a transfer would leave an account
	// below the minimum balance without being allowed to do so.
	ErrorExistentialDeposit

	// ErrorContractTrapped is returned when the executed code failed.
	ErrorContractTrapped

	// ErrorInvalidInput is returned by contracts that cannot decode their input.
	ErrorInvalidInput
)

type ExecError interface {
	error
	Code() ErrorCode
}

var _ ExecError = new(BaseError)

type BaseError struct {
	code ErrorCode
}

type VerboseError struct {
	BaseError
	msg string
}

type WrapError struct {
	BaseError
	inner error
}

func NewError(code ErrorCode) ExecError {
	return &BaseError{code}
}

func IsValidError(err error) bool {
	return ToError(err) != nil
}

func ToBaseError(err error) *BaseError {
	var base *BaseError
	if errors.As(err, &base) {
		return base
	}
	return nil
}

func ToError(err error) ExecError {
	if e, ok := err.(ExecError); ok { //nolint:errorlint
		return e
	}
	return nil
}

// GetErrorCode extracts the code from any error in the chain. Errors without a code are
// reported as ErrorUnknown.
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ErrorSuccess
	}
	var coded ExecError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ErrorUnknown
}

// IsErrorCode reports whether the error chain carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return err != nil && GetErrorCode(err) == code
}

func NewWrapError(code ErrorCode, err error) ExecError {
	// Nested errors(Error type) are not allowed because error code must be unique.
	check.PanicIfNotf(!IsValidError(err), "nested errors are prohibited")
	return &WrapError{BaseError{code}, err}
}

func KeepOrWrapError(code ErrorCode, err error) ExecError {
	if e := ToError(err); e != nil {
		return e
	}
	return NewWrapError(code, err)
}

func NewVerboseError(code ErrorCode, msg string) ExecError {
	return &VerboseError{BaseError{code}, msg}
}

func (e BaseError) Error() string {
	return e.Code().String()
}

func (e BaseError) Code() ErrorCode {
	return e.code
}

func (e WrapError) Error() string {
	return e.BaseError.Error() + ": " + e.inner.Error()
}

func (e WrapError) Unwrap() error {
	return e.inner
}

func (e VerboseError) Error() string {
	return e.BaseError.Error() + ": " + e.msg
}

func (e VerboseError) Unwrap() error {
	return &e.BaseError
}
