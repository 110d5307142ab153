package domain

import (
	"errors"
	"fmt"
)

// Kind groups errors by how a caller should react to them.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindForbidden      Kind = "forbidden"
	KindExhausted      Kind = "exhausted"
	KindInvalid        Kind = "invalid"
	KindStorageFailure Kind = "storage_failure"
)

// Error is the typed outcome surfaced by the reservation and settlement
// services. Two errors are equal under errors.Is when their codes match.
type Error struct {
	Kind Kind
	Code string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of e carrying a more specific message.
func (e *Error) With(format string, args ...any) *Error {
	c := *e
	c.Msg = fmt.Sprintf(format, args...)
	return &c
}

var (
	ErrDepartureNotFound   = &Error{Kind: KindNotFound, Code: "departure_not_found", Msg: "departure not found"}
	ErrReservationNotFound = &Error{Kind: KindNotFound, Code: "reservation_not_found", Msg: "reservation not found"}
	ErrCredentialNotFound  = &Error{Kind: KindNotFound, Code: "credential_not_found", Msg: "credential not found"}

	ErrSeatAlreadyReserved      = &Error{Kind: KindConflict, Code: "seat_already_reserved", Msg: "seat is already reserved"}
	ErrAlreadyScanned           = &Error{Kind: KindConflict, Code: "already_scanned", Msg: "reservation has already been scanned"}
	ErrReservationCancelled     = &Error{Kind: KindConflict, Code: "reservation_cancelled", Msg: "reservation has been cancelled"}
	ErrDepartureAlreadyDeparted = &Error{Kind: KindConflict, Code: "departure_already_departed", Msg: "departure has already departed"}
	ErrDepartureAlreadyLeft     = &Error{Kind: KindConflict, Code: "departure_already_left", Msg: "bus has already left, credential expired"}

	ErrForbidden = &Error{Kind: KindForbidden, Code: "forbidden", Msg: "access denied"}

	ErrNoSeatsAvailable = &Error{Kind: KindExhausted, Code: "no_seats_available", Msg: "no seats available on this departure"}

	ErrInvalidInput   = &Error{Kind: KindInvalid, Code: "invalid_input", Msg: "invalid input"}
	ErrSeatOutOfRange = &Error{Kind: KindInvalid, Code: "seat_out_of_range", Msg: "seat number is outside the bus capacity"}

	ErrStorageFailure = &Error{Kind: KindStorageFailure, Code: "storage_failure", Msg: "storage failure"}
)

// Invalid reports a malformed or missing input field.
func Invalid(field, msg string) error {
	return ErrInvalidInput.With("%s: %s", field, msg)
}

// StorageFailure wraps an unexpected store error. The outcome of the
// operation is unknown to the caller.
func StorageFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	c := *ErrStorageFailure
	c.Err = err
	return &c
}

// KindOf returns the kind of a domain error, or KindStorageFailure for
// anything the services did not classify.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorageFailure
}

// CodeOf returns the stable code of a domain error.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrStorageFailure.Code
}

func IsNotFound(err error) bool  { return err != nil && KindOf(err) == KindNotFound }
func IsConflict(err error) bool  { return err != nil && KindOf(err) == KindConflict }
func IsForbidden(err error) bool { return err != nil && KindOf(err) == KindForbidden }
