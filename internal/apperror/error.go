package apperror

import "errors"

type Code string

const (
	CodeInvalidRequest Code = "invalid_request"
	CodeUnknownTable   Code = "unknown_table"
	CodeStorage        Code = "storage"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a code to err, keeping err's text as the message.
func Wrap(code Code, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code: code,
		Err:  err,
	}
}

// GetCode reports the code of err. Errors without one count as storage errors.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeStorage
}
