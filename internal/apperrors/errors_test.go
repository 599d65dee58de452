package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusConflict, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
	}
	for _, tt := range tests {
		err := FromStatus("plaid", "accounts/get", tt.status, "", errors.New("boom"))
		if IsTransient(err) != tt.transient {
			t.Errorf("status %d: IsTransient = %v, want %v", tt.status, IsTransient(err), tt.transient)
		}
		if IsPermanent(err) == tt.transient {
			t.Errorf("status %d: IsPermanent = %v, want %v", tt.status, IsPermanent(err), !tt.transient)
		}
	}
}

func TestFromTransport(t *testing.T) {
	if !IsTransient(FromTransport("dwolla", "transfers", timeoutErr{})) {
		t.Error("timeouts should be transient")
	}
	if !IsTransient(FromTransport("dwolla", "transfers", errors.New("connection reset"))) {
		t.Error("connection errors should be transient")
	}
	if IsTransient(FromTransport("dwolla", "transfers", context.Canceled)) {
		t.Error("caller cancellation should not be transient")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("step 4: %w", NewValidation("date_of_birth", "must be YYYY-MM-DD"))
	if !IsValidation(wrapped) {
		t.Error("expected wrapped validation error to be detected")
	}
	if IsNotFound(wrapped) || IsExternal(wrapped) || IsInconsistent(wrapped) {
		t.Error("validation error matched an unrelated predicate")
	}

	inconsistent := fmt.Errorf("record transfer: %w", &InconsistentStateError{
		Operation: "transfer",
		Reference: "https://api.example/transfers/1",
		Err:       errors.New("disk full"),
	})
	if !IsInconsistent(inconsistent) {
		t.Error("expected inconsistent state error to be detected")
	}
}
