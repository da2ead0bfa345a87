package pps

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a class of power module failures.
type Code string

func (c Code) Error() string { return string(c) }

const (
	OK Code = "ok"
	// Nack means the module did not acknowledge its address or the transfer.
	Nack    Code = "nack"
	Timeout Code = "timeout"
	// Bus is any other transport failure.
	Bus Code = "bus"
	// ResultInvalid means the response length does not match the register.
	ResultInvalid  Code = "result_invalid"
	Decode         Code = "decode"
	Unsupported    Code = "unsupported"
	ModuleNotFound Code = "module_not_found"

	Unknown Code = "error"
)

// Codes lists every failure code, used to pre-register metrics.
var Codes = []Code{Nack, Timeout, Bus, ResultInvalid, Decode, Unsupported, ModuleNotFound}

// Error wraps a failure with the operation and register it happened on.
type Error struct {
	Code     Code
	Op       string
	Register Register
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Register, e.Code)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	code, ok := target.(Code)
	return ok && code == e.Code
}

// CodeOf extracts the Code from err.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var code Code
	if errors.As(err, &code) {
		return code
	}
	return Unknown
}

func newError(code Code, op string, register Register, err error) *Error {
	return &Error{
		Code:     code,
		Op:       op,
		Register: register,
		Err:      err,
	}
}
