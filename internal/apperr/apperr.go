// Package apperr is the domain error taxonomy. Handlers map these onto HTTP
// status codes once, at the boundary; anything that is not an *Error collapses
// to a 500 with a terse body.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota
	AlreadyAuthenticated
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	InvalidTransition
	Internal
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

func Status(err error) int {
	switch KindOf(err) {
	case Validation, AlreadyAuthenticated, InvalidTransition:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
