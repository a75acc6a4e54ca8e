package common

import (
	"fmt"
)

const (
	ErrNoResourceCode = "resource_not_found"
	ErrBadRequestCode = "invalid_request"
	ErrInternalCode   = "internal_error"
	// ErrInvariantCode marks a state corruption that correct operation never produces.
	ErrInvariantCode = "invariant_violation"
)

/*Error type for a new application error */
type Error struct {
	Code string `json:"code,omitempty"`
	Msg  string `json:"msg"`
}

func (err *Error) Error() string {
	return fmt.Sprintf("%s: %s", err.Code, err.Msg)
}

// Is reports whether target carries the same error code, so sentinel errors
// keep matching after NewErrorf or errors.Wrap.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return err.Code == t.Code
}

/*NewError - create a new error */
func NewError(code string, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

/*NewErrorf - create a new error with format */
func NewErrorf(code string, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

/*InvalidRequest - create error messages that are needed when validating request input */
func InvalidRequest(msg string) error {
	return NewError(ErrBadRequestCode, fmt.Sprintf("Invalid request (%v)", msg))
}

// NewErrNoResource creates new Error with ErrNoResourceCode.
func NewErrNoResource(msg string) error {
	return NewError(ErrNoResourceCode, msg)
}

// NewErrInternal creates new Error with ErrInternalCode.
func NewErrInternal(msg string) error {
	return NewError(ErrInternalCode, msg)
}

// Invariant panics with an invariant_violation error. It is used where the
// state reached can only be explained by a logic defect, so the whole
// execution step has to be discarded by the host.
func Invariant(format string, args ...interface{}) {
	panic(NewErrorf(ErrInvariantCode, format, args...))
}

// RecoverInvariant converts a recovered invariant panic into an error. Any
// other panic value is re-raised.
func RecoverInvariant(r interface{}) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(*Error); ok && err.Code == ErrInvariantCode {
		return err
	}
	panic(r)
}
