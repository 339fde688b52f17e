package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeSyntax, "final statement must be an expression"),
			want: "SYNTAX_ERROR: final statement must be an expression",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeIO, fmt.Errorf("permission denied"), "write artifact"),
			want: "IO_ERROR: write artifact: permission denied",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeRuntime, "evaluation failed")

	if !Is(err, ErrCodeRuntime) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeSyntax) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeRuntime) {
		t.Error("Is should not match a plain error")
	}

	// Wrapped errors are still matchable through the chain.
	wrapped := fmt.Errorf("converting page: %w", err)
	if !Is(wrapped, ErrCodeRuntime) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeType, "not a mapping")); got != ErrCodeType {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeType)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeIO, cause, "write artifact")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidOption, "unknown option %q", "bogus")); got != `unknown option "bogus"` {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
