package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := stderrors.New("boom")
	tests := []struct {
		name   string
		err    *QRError
		code   ErrorCode
		status int
	}{
		{"encode", NewEncodeFailure(cause), ErrEncodeFailure, 422},
		{"export", NewExportFailure(cause), ErrExportFailure, 500},
		{"clipboard", NewClipboardFailure(cause), ErrClipboardFailure, 500},
		{"platform", NewInvalidPlatform("myspace"), ErrInvalidPlatform, 400},
		{"input", NewInvalidInput("bad size"), ErrInvalidInput, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("Code = %s, want %s", tc.err.Code, tc.code)
			}
			if tc.err.Status != tc.status {
				t.Errorf("Status = %d, want %d", tc.err.Status, tc.status)
			}
			if !strings.HasPrefix(tc.err.Error(), string(tc.code)) {
				t.Errorf("Error() = %q, want prefix %q", tc.err.Error(), tc.code)
			}
		})
	}
}

func TestIsFollowsWrapping(t *testing.T) {
	base := NewInvalidPlatform("myspace")
	wrapped := fmt.Errorf("share: %w", base)

	if !Is(wrapped, ErrInvalidPlatform) {
		t.Fatal("expected wrapped error to match INVALID_PLATFORM")
	}
	if Is(wrapped, ErrEncodeFailure) {
		t.Fatal("did not expect ENCODE_FAILURE match")
	}
	if Is(stderrors.New("plain"), ErrInvalidPlatform) {
		t.Fatal("plain error must not match")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewExportFailure(cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the cause")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Error() = %q, expected cause text", err.Error())
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(fmt.Errorf("x: %w", NewInvalidInput("size"))); got != 400 {
		t.Fatalf("StatusOf = %d, want 400", got)
	}
	if got := StatusOf(stderrors.New("plain")); got != 500 {
		t.Fatalf("StatusOf(plain) = %d, want 500", got)
	}
}
