package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogHandler(t *testing.T) {
	tests := []struct {
		format, level string
		wantJSON      bool
		debugEnabled  bool
		infoEnabled   bool
	}{
		{"json", "info", true, false, true},
		{"", "", true, false, true},
		{"TEXT", "debug", false, true, true},
		{"text", "warn", false, false, false},
		{"json", "bogus", true, false, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		h := logHandler(&buf, tt.format, tt.level)
		if got := h.Enabled(context.Background(), slog.LevelDebug); got != tt.debugEnabled {
			t.Errorf("%s/%s: debug enabled = %v", tt.format, tt.level, got)
		}
		if got := h.Enabled(context.Background(), slog.LevelInfo); got != tt.infoEnabled {
			t.Errorf("%s/%s: info enabled = %v", tt.format, tt.level, got)
		}
		slog.New(h).Error("x")
		if isJSON := strings.HasPrefix(buf.String(), "{"); isJSON != tt.wantJSON {
			t.Errorf("%s/%s: json = %v, output %q", tt.format, tt.level, isJSON, buf.String())
		}
	}
}
