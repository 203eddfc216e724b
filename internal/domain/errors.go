package domain

import (
	"errors"
	"fmt"
)

// Reason is the machine-readable failure code returned to clients.
type Reason string

const (
	ReasonSeatAlreadyTaken   Reason = "SeatAlreadyTaken"
	ReasonBusFull            Reason = "BusFull"
	ReasonSeatOutOfRange     Reason = "SeatOutOfRange"
	ReasonNotFound           Reason = "NotFound"
	ReasonInvalidFormat      Reason = "InvalidFormat"
	ReasonInvalidInput       Reason = "InvalidInput"
	ReasonCodeSpaceExhausted Reason = "CodeSpaceExhausted"
	ReasonEmailTaken         Reason = "EmailTaken"
	ReasonInvalidCredentials Reason = "InvalidCredentials"
	ReasonForbidden          Reason = "Forbidden"
	ReasonServerError        Reason = "ServerError"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Reason Reason
	Field  string
	Msg    string
	Err    error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Reason   Reason
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

// ForbiddenError is an authenticated caller acting on another user's data.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Reason Reason
	Msg    string
	Err    error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// ReasonOf extracts the client-facing reason; untyped errors are server errors.
func ReasonOf(err error) Reason {
	var (
		v  ValidationError
		c  ConflictError
		nf NotFoundError
		u  UnauthorizedError
		f  ForbiddenError
		in InternalError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &v):
		if v.Reason != "" {
			return v.Reason
		}
		return ReasonInvalidInput
	case errors.As(err, &c):
		return c.Reason
	case errors.As(err, &nf):
		return ReasonNotFound
	case errors.As(err, &u):
		return ReasonInvalidCredentials
	case errors.As(err, &f):
		return ReasonForbidden
	case errors.As(err, &in) && in.Reason != "":
		return in.Reason
	default:
		return ReasonServerError
	}
}

// Sentinel outcomes of a seat claim.
var (
	ErrSeatAlreadyTaken = ConflictError{Reason: ReasonSeatAlreadyTaken, Resource: "seat", Msg: "seat is already booked"}
	ErrBusFull          = ConflictError{Reason: ReasonBusFull, Resource: "bus", Msg: "bus is fully booked, please choose another bus"}
	ErrSeatOutOfRange   = ValidationError{Reason: ReasonSeatOutOfRange, Field: "seatNumber", Msg: "seat number is outside the bus layout"}
	ErrInvalidPNR       = ValidationError{Reason: ReasonInvalidFormat, Field: "pnr", Msg: "pnr must be 10 letters or digits"}
	ErrCodeSpace        = InternalError{Reason: ReasonCodeSpaceExhausted, Msg: "could not allocate a unique pnr"}
)
