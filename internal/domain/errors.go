package domain

import "errors"

// Error carries the HTTP-equivalent status the request boundary reports and
// the name field of the error envelope.
type Error struct {
	Code    int
	Name    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewValidationError(message, name string) *Error {
	return &Error{Code: 400, Name: name, Message: message}
}

func NewNotFoundError(message, name string) *Error {
	return &Error{Code: 404, Name: name, Message: message}
}

// AsError unwraps err into *Error, falling back to a 500 wrapper so the
// request boundary always has a status and an envelope to write.
func AsError(err error) *Error {
	var derr *Error
	if errors.As(err, &derr) {
		return derr
	}
	return &Error{Code: 500, Name: "Error", Message: err.Error()}
}
