package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	CodeDecode         = "decode_error"
	CodeEncode         = "encode_error"
	CodeNoItems        = "no_items"
	CodeTooManyItems   = "too_many_items"
	CodeAllItemsFailed = "all_items_failed"
	CodePackaging      = "packaging_failed"
	CodeCancelled      = "cancelled"
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal_error"
)

// ItemFailure describes why one item of a batch was dropped.
type ItemFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type AppError struct {
	Code     string
	Message  string
	Err      error
	Failures []ItemFailure
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	var ae *AppError
	for err != nil {
		if !stderrors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Err
	}
	return false
}

var (
	ErrDecode = func(err error) *AppError {
		return &AppError{Code: CodeDecode, Message: "image could not be decoded", Err: err}
	}
	ErrEncode = func(err error) *AppError {
		return &AppError{Code: CodeEncode, Message: "image could not be encoded", Err: err}
	}
	ErrNoItems = func() *AppError {
		return &AppError{Code: CodeNoItems, Message: "no files uploaded"}
	}
	ErrTooManyItems = func(got, limit int) *AppError {
		return &AppError{Code: CodeTooManyItems, Message: fmt.Sprintf("too many files: %d (max %d)", got, limit)}
	}
	ErrAllItemsFailed = func(failures []ItemFailure) *AppError {
		return &AppError{Code: CodeAllItemsFailed, Message: "no image could be optimized", Failures: failures}
	}
	ErrPackaging = func(err error) *AppError {
		return &AppError{Code: CodePackaging, Message: "archive could not be created", Err: err}
	}
	ErrCancelled = func(err error) *AppError {
		return &AppError{Code: CodeCancelled, Message: "request cancelled", Err: err}
	}
	ErrInvalidRequest = func(err error) *AppError {
		return &AppError{Code: CodeInvalidRequest, Message: "invalid request", Err: err}
	}
	ErrInternal = func(err error) *AppError {
		return &AppError{Code: CodeInternal, Message: "internal server error", Err: err}
	}
)
