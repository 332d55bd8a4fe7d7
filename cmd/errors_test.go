package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marcus/hours/internal/output"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("schedule %q: %w", "x", errScheduleNotFound), output.ErrCodeNotFound},
		{fmt.Errorf("cannot delete Work: %w", errProtected), output.ErrCodeProtected},
		{&scheduleclient.TransportError{Err: errors.New("connection refused")}, output.ErrCodeTransport},
		{fmt.Errorf("frame: %w", timeofday.ErrFormat), output.ErrCodeInvalidInput},
		{validate.ErrNameRequired, output.ErrCodeInvalidInput},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"server.api_key", "abcdef123456", "********3456"},
		{"server.api_key", "abc", "***"},
		{"server.api_key", "", ""},
		{"server.url", "http://localhost:8000", "http://localhost:8000"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.key, tt.val); got != tt.want {
			t.Errorf("maskSecret(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}
