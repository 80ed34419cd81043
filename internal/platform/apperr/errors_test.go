package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCodeMatchesWrappedErrors(t *testing.T) {
	base := New(CodeConflict, "Connection.Accept", "connection changed while accepting", nil)
	wrapped := fmt.Errorf("outer: %w", base)

	if !IsCode(wrapped, CodeConflict) {
		t.Fatalf("IsCode: expected conflict on wrapped error")
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("IsCode: not_found should not match conflict error")
	}
	if got := CodeOf(wrapped); got != CodeConflict {
		t.Fatalf("CodeOf: want=%s got=%s", CodeConflict, got)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Fatalf("CodeOf plain error: want empty got=%s", got)
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
}

func TestErrorStringIncludesOpAndCode(t *testing.T) {
	err := New(CodeValidation, "Connection.Request", "missing requester id", nil)
	want := "Connection.Request: missing requester id (validation)"
	if err.Error() != want {
		t.Fatalf("Error(): want=%q got=%q", want, err.Error())
	}
}
