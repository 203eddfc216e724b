package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestReasonOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Reason
	}{
		{"nil", nil, ""},
		{"seat taken", ErrSeatAlreadyTaken, ReasonSeatAlreadyTaken},
		{"wrapped bus full", fmt.Errorf("claim: %w", ErrBusFull), ReasonBusFull},
		{"out of range", ErrSeatOutOfRange, ReasonSeatOutOfRange},
		{"bad pnr", ErrInvalidPNR, ReasonInvalidFormat},
		{"plain validation", ValidationError{Field: "busId"}, ReasonInvalidInput},
		{"not found", NotFoundError{Resource: "booking"}, ReasonNotFound},
		{"exhausted", ErrCodeSpace, ReasonCodeSpaceExhausted},
		{"unauthorized", UnauthorizedError{}, ReasonInvalidCredentials},
		{"forbidden", fmt.Errorf("list: %w", ForbiddenError{}), ReasonForbidden},
		{"storage", InternalError{Err: errors.New("conn reset")}, ReasonServerError},
		{"untyped", errors.New("boom"), ReasonServerError},
	}
	for _, tc := range cases {
		if got := ReasonOf(tc.err); got != tc.want {
			t.Fatalf("%s: ReasonOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIsHelpersUnwrap(t *testing.T) {
	err := fmt.Errorf("book: %w", ErrSeatAlreadyTaken)
	if !IsConflict(err) || IsValidation(err) || IsNotFound(err) {
		t.Fatalf("wrapped conflict misclassified")
	}
	if !IsValidation(ErrInvalidPNR) || !IsInternal(ErrCodeSpace) {
		t.Fatalf("sentinel types misclassified")
	}
}
