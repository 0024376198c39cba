package errors

import (
	stdErrors "errors"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInitiation   Code = "INITIATION_FAILED"
	CodeCancelled    Code = "CHECKOUT_CANCELLED"
	CodeVerification Code = "VERIFICATION_FAILED"
	CodeFetch        Code = "FETCH_FAILED"
	CodeRender       Code = "RENDER_FAILED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Metadata describes how a coded error is reported to the user.
type Metadata struct {
	// Terminal errors end the checkout attempt; non-terminal ones are
	// recovered locally with placeholders and the flow continues.
	Terminal       bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Terminal:       true,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeInitiation: {
		Terminal:       true,
		PublicMessage:  "Payment initialization failed",
		DetailsAllowed: false,
	},
	CodeCancelled: {
		Terminal:       true,
		PublicMessage:  "Payment cancelled by user",
		DetailsAllowed: false,
	},
	CodeVerification: {
		Terminal:       true,
		PublicMessage:  "Payment verification failed",
		DetailsAllowed: false,
	},
	CodeFetch: {
		Terminal:       false,
		PublicMessage:  "Receipt generation failed, please verify payment manually",
		DetailsAllowed: true,
	},
	CodeRender: {
		Terminal:       true,
		PublicMessage:  "Receipt generation failed, please download manually",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		Terminal:       true,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeStateConflict: {
		Terminal:       true,
		PublicMessage:  "another checkout attempt is in flight",
		DetailsAllowed: true,
	},
	CodeDependency: {
		Terminal:       true,
		PublicMessage:  "upstream dependency failed",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Terminal:       true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

// MetadataFor returns the reporting metadata for the code.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return string(e.code) + ": " + e.message + ": " + e.cause.Error()
	}
	return string(e.code) + ": " + e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsTerminal reports whether the error ends the checkout attempt. Unknown
// errors are treated as terminal.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	typed := As(err)
	if typed == nil {
		return true
	}
	return MetadataFor(typed.Code()).Terminal
}

// PublicMessage resolves the user-facing notification text for the error.
func PublicMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	meta := MetadataFor(typed.Code())
	if meta.DetailsAllowed && typed.Message() != "" {
		return typed.Message()
	}
	return meta.PublicMessage
}
