package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeElementAlreadyExists, "node %q", "A"), `ELEMENT_ALREADY_EXISTS: node "A"`},
		{"no args", New(ErrCodeConcurrentModification, "listener registered during dispatch"), "CONCURRENT_MODIFICATION: listener registered during dispatch"},
		{"wrapped", Wrap(ErrCodeBackend, errors.New("connection refused"), "redis mirror"), "BACKEND_ERROR: redis mirror: connection refused"},
		{"nested", Wrap(ErrCodeInvalidFormat, New(ErrCodeInvalidID, "empty id"), "line %d", 4), "INVALID_FORMAT: line 4: INVALID_ID: empty id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := errors.New("element not found")
	err := fmt.Errorf("apply event 7: %w", Wrap(ErrCodeElementNotFound, sentinel, "edge %q", "AB"))

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should reach the sentinel through both wrappers")
	}
	var e *Error
	if !errors.As(err, &e) || e.Message != `edge "AB"` {
		t.Fatalf("errors.As() = %v", e)
	}
	if errors.Unwrap(e) != sentinel {
		t.Errorf("Unwrap() = %v, want sentinel", errors.Unwrap(e))
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"same code", New(ErrCodeClassMismatch, "edge factory"), ErrCodeClassMismatch, true},
		{"other code", New(ErrCodeClassMismatch, "edge factory"), ErrCodeElementNotFound, false},
		{"outer code", Wrap(ErrCodeBackend, New(ErrCodeNotFound, "no snapshot"), "archive"), ErrCodeBackend, true},
		{"inner code", Wrap(ErrCodeInvalidFormat, New(ErrCodeInvalidID, "empty"), "line 3"), ErrCodeInvalidID, true},
		{"through fmt", fmt.Errorf("replay roads.jsonl: %w", New(ErrCodeElementNotFound, "node %q", "A")), ErrCodeElementNotFound, true},
		{"plain cause ends chain", Wrap(ErrCodeBackend, errors.New("dial tcp"), "redis"), ErrCodeInvalidInput, false},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeElementNotFound, "test"),
			expected: ErrCodeElementNotFound,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeInvalidFormat, New(ErrCodeInvalidID, "empty"), "line 3"),
			expected: ErrCodeInvalidFormat,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"structured": {New(ErrCodeInvalidConfig, "redis address is empty"), "redis address is empty"},
		"wrapped":    {fmt.Errorf("mirror: %w", New(ErrCodeBackend, "graph %q not mirrored", "g")), `graph "g" not mirrored`},
		"plain":      {errors.New("unexpected EOF"), "unexpected EOF"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
