package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", NewResourceNotFoundError("session not found"), ErrResourceNotFound},
		{"forbidden", NewForbiddenError("admins only"), ErrPermissionDenied},
		{"bad request", NewBadRequestError("userIds is required"), ErrBadRequest},
		{"conflict", NewConflictError("already committed"), ErrConflict},
		{"unauthorized", NewUnauthorizedError("sign in"), ErrUnauthorized},
		{"upstream", NewUpstreamError("sms send failed", cause), ErrUpstream},
		{"unparseable", NewUnparseableError("bad json", cause), ErrUnparseable},
		{"quota", NewQuotaExceededError("quota", cause), ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("service: %w", tt.err)
			if !errors.Is(wrapped, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.target)
			}
		})
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("smtp: 421")
	err := NewUpstreamError("email delivery failed", cause)

	if !errors.Is(err, cause) {
		t.Error("cause should remain reachable")
	}
	if err.Error() != "email delivery failed" {
		t.Errorf("Error() = %q, cause text must not leak", err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	msg, ok := PublicMessage(fmt.Errorf("wrap: %w", NewBadRequestError("action must be approve or reject")))
	if !ok || msg != "action must be approve or reject" {
		t.Errorf("got (%q, %v)", msg, ok)
	}

	if _, ok := PublicMessage(errors.New("plain")); ok {
		t.Error("plain errors carry no public message")
	}
}

func TestIsMatchesAnyInList(t *testing.T) {
	err := NewForbiddenError("nope")
	if !Is(err, ErrResourceNotFound, ErrBadRequest, ErrPermissionDenied) {
		t.Error("expected match on list entry")
	}
	if Is(err, ErrResourceNotFound) {
		t.Error("unexpected match")
	}
}
