package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsHandler(origins ...string) http.Handler {
	s := &Server{cors: newCORSPolicy(origins)}
	return s.corsMiddleware(okHandler)
}

func corsRequest(h http.Handler, method, origin string, preflight bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/schedulingHours/abc", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", "PUT")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		origins   []string
		method    string
		origin    string
		preflight bool
		wantCode  int
		wantAllow string
	}{
		{"disabled", nil, "GET", "https://hours.example.com", false, http.StatusOK, ""},
		{"allowed", []string{"https://hours.example.com/"}, "GET", "https://hours.example.com", false, http.StatusOK, "https://hours.example.com"},
		{"disallowed", []string{"https://hours.example.com"}, "GET", "https://evil.example.com", false, http.StatusOK, ""},
		{"no origin header", []string{"*"}, "GET", "", false, http.StatusOK, ""},
		{"preflight wildcard", []string{"*"}, "OPTIONS", "https://any.example.com", true, http.StatusNoContent, "https://any.example.com"},
		{"options without preflight header", []string{"*"}, "OPTIONS", "https://any.example.com", false, http.StatusOK, "https://any.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := corsRequest(corsHandler(tt.origins...), tt.method, tt.origin, tt.preflight)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestCORS_PreflightHeaders(t *testing.T) {
	w := corsRequest(corsHandler("https://hours.example.com"), "OPTIONS", "https://hours.example.com", true)
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("missing Allow-Methods")
	}
	if w.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("Max-Age = %q", w.Header().Get("Access-Control-Max-Age"))
	}
	if w.Header().Get("Vary") != "Origin" {
		t.Errorf("Vary = %q", w.Header().Get("Vary"))
	}
}
