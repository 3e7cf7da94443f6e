// Package apperror defines the numeric error taxonomy exposed across the
// external interface, mirroring the {code, message} Error type of the
// original canister API.
package apperror

import "fmt"

// Code is a numeric error code returned to callers across the external
// interface.
type Code uint32

// Error codes, matching the external interface's Error.code values exactly.
const (
	CodeNotFound           Code = 1
	CodeAlreadyExists      Code = 2
	CodeInvalidPath        Code = 3
	CodeInvalidMimetype    Code = 4
	CodePermissionDenied   Code = 5
	CodeInvalidSequence    Code = 6
	CodeInvalidSize        Code = 7
	CodeInvalidHash        Code = 8
	CodeAlreadyInitialized Code = 9
	CodeUnknown            Code = 1<<32 - 1
)

var codeNames = map[Code]string{
	CodeNotFound:           "NOT_FOUND",
	CodeAlreadyExists:      "ALREADY_EXISTS",
	CodeInvalidPath:        "INVALID_PATH",
	CodeInvalidMimetype:    "INVALID_MIMETYPE",
	CodePermissionDenied:   "PERMISSION_DENIED",
	CodeInvalidSequence:    "INVALID_SEQUENCE",
	CodeInvalidSize:        "INVALID_SIZE",
	CodeInvalidHash:        "INVALID_HASH",
	CodeAlreadyInitialized: "ALREADY_INITIALIZED",
	CodeUnknown:            "UNKNOWN",
}

// String returns the symbolic name of the code, e.g. "NOT_FOUND".
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Error is the error type returned by every external operation. It carries
// the numeric code that callers switch on, plus a human-readable message.
type Error struct {
	Code    Code
	Message string
}

// New constructs an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether err is an *Error carrying the given code, so callers
// can use errors.Is(err, apperror.NotFound("")) style checks against an
// *Error built by the constructors below, or compare codes directly via
// CodeOf.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// CodeOf extracts the Code from err, returning CodeUnknown for any error
// that isn't an *Error (e.g. a raw volume I/O error that wasn't wrapped).
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var appErr *Error
	if as(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Sentinel constructors for the common cases, used throughout the service.
func NotFound(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func AlreadyExists(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func InvalidPath(format string, args ...any) *Error {
	return Newf(CodeInvalidPath, format, args...)
}

func InvalidMimetype(format string, args ...any) *Error {
	return Newf(CodeInvalidMimetype, format, args...)
}

func PermissionDenied(format string, args ...any) *Error {
	return Newf(CodePermissionDenied, format, args...)
}

func InvalidSequence(format string, args ...any) *Error {
	return Newf(CodeInvalidSequence, format, args...)
}

func InvalidSize(format string, args ...any) *Error {
	return Newf(CodeInvalidSize, format, args...)
}

func InvalidHash(format string, args ...any) *Error {
	return Newf(CodeInvalidHash, format, args...)
}

func AlreadyInitialized(format string, args ...any) *Error {
	return Newf(CodeAlreadyInitialized, format, args...)
}

func Unknown(format string, args ...any) *Error {
	return Newf(CodeUnknown, format, args...)
}
