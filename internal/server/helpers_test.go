package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"/api/analyses/abc-123", "/api/analyses/", "", "abc-123"},
		{"/api/analyses/abc-123/extra", "/api/analyses/", "", "abc-123"},
		{"/api/analyses/abc/detail", "/api/analyses/", "/detail", "abc"},
		{"/api/other/abc", "/api/analyses/", "", ""},
		{"/api/analyses/", "/api/analyses/", "", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := PathParam(r, tt.prefix, tt.suffix); got != tt.want {
			t.Errorf("PathParam(%q, %q, %q) = %q, want %q", tt.path, tt.prefix, tt.suffix, got, tt.want)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/analyze", nil)

	if RequireMethod(rr, r, http.MethodGet, http.MethodPost) {
		t.Fatal("expected RequireMethod to reject DELETE")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != "GET, POST" {
		t.Errorf("Allow = %q", allow)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusBadRequest, "bad input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
