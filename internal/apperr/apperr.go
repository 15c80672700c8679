package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind is the stable tag attached to every error returned to a caller.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindInvalidToken       Kind = "invalid_token"
	KindValidationRejected Kind = "validation_rejected"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindInternal           Kind = "internal"
)

// FieldError attributes a validation failure to a single input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func InvalidToken(message string) *Error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidationRejected, Message: "invalid request", Fields: fields}
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with id: %s not found", entity, id)}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal wraps a store or unexpected error. The wrapped error is kept for
// logging only and never serialized to the caller.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind tag from any error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var statusByKind = map[Kind]int{
	KindUnauthenticated:    http.StatusUnauthorized,
	KindInvalidToken:       http.StatusUnauthorized,
	KindValidationRejected: http.StatusBadRequest,
	KindNotFound:           http.StatusNotFound,
	KindForbidden:          http.StatusForbidden,
	KindInternal:           http.StatusInternalServerError,
}

// Respond writes the error to the client with its kind tag. Internal detail
// stays server-side.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal("unexpected error", err)
	}

	status := statusByKind[e.Kind]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := gin.H{"kind": e.Kind}
	if e.Kind == KindValidationRejected {
		body["errors"] = e.Fields
	} else {
		body["error"] = e.Message
	}

	c.JSON(status, body)
}

// Abort is Respond plus aborting the remaining handler chain, for use in
// middleware.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
