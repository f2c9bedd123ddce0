package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "invalid branch name: %s", "x")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("code = %s", err.Code)
	}
	if got := err.Error(); got != "INVALID_INPUT: invalid branch name: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to load company %s", "co")

	if got := err.Error(); got != "NETWORK_ERROR: failed to load company co: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeBranchNotFound, "branch %s", "b1")
	if !Is(err, ErrCodeBranchNotFound) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("plain errors carry no code")
	}

	// The code survives further wrapping with %w.
	wrapped := fmt.Errorf("handler: %w", err)
	if !Is(wrapped, ErrCodeBranchNotFound) {
		t.Error("Is should unwrap the chain")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeForbidden, "nope")); got != ErrCodeForbidden {
		t.Errorf("GetCode = %s", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeTimeout, stderrors.New("deadline"), "layout took too long")
	if got := UserMessage(err); got != "layout took too long" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
