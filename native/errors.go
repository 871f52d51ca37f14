// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "fmt"

// ErrorCode is a raw driver error flag value.
type ErrorCode uint32

// Driver error flag values, numerically equal to their OpenGL enums.
const (
	CodeNoError                     ErrorCode = 0
	CodeInvalidEnum                 ErrorCode = 0x0500
	CodeInvalidValue                ErrorCode = 0x0501
	CodeInvalidOperation            ErrorCode = 0x0502
	CodeOutOfMemory                 ErrorCode = 0x0505
	CodeInvalidFramebufferOperation ErrorCode = 0x0506
)

// ErrorKind is a decoded driver error.
type ErrorKind int

// Decoded driver errors.
const (
	NoError ErrorKind = iota
	InvalidEnum
	InvalidValue
	InvalidOperation
	InvalidFramebufferOperation
	OutOfMemory
	UnknownError
)

// DecodeError maps a raw error flag to its kind. Unrecognized codes decode
// to UnknownError.
func DecodeError(code ErrorCode) ErrorKind {
	switch code {
	case CodeNoError:
		return NoError
	case CodeInvalidEnum:
		return InvalidEnum
	case CodeInvalidValue:
		return InvalidValue
	case CodeInvalidOperation:
		return InvalidOperation
	case CodeInvalidFramebufferOperation:
		return InvalidFramebufferOperation
	case CodeOutOfMemory:
		return OutOfMemory
	default:
		return UnknownError
	}
}

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "NoError"
	case InvalidEnum:
		return "InvalidEnum"
	case InvalidValue:
		return "InvalidValue"
	case InvalidOperation:
		return "InvalidOperation"
	case InvalidFramebufferOperation:
		return "InvalidFramebufferOperation"
	case OutOfMemory:
		return "OutOfMemory"
	case UnknownError:
		return "UnknownError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}
