package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthHeader = NewCodedError("missing authorization header", http.StatusUnauthorized)
	ErrBadRequest        = NewCodedError("bad request", http.StatusBadRequest)
)

// editor-side errors, never sent over the wire
var (
	ErrMissingSelection  = errors.New("seleccione provincia, cantón y al menos una parroquia")
	ErrRecordRequired    = errors.New("guarde la matriz antes de registrar infraestructura")
	ErrSessionClosed     = errors.New("session closed")
	ErrInvalidTransition = errors.New("invalid editor state transition")
)
