package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation_failed" {
		t.Fatalf("unexpected error %q", body.Error)
	}
	details, ok := body.Details.(map[string]any)
	if !ok || details["name"] != "required" {
		t.Fatalf("unexpected details %#v", body.Details)
	}
}

func TestJSONNilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	if strings.TrimSpace(w.Body.String()) != "null" {
		t.Fatalf("expected null body got %q", w.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
	if err := DecodeJSON(r, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "Acme" {
		t.Fatalf("unexpected name %q", dst.Name)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatalf("expected error for empty body")
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{nope"))
	if err := DecodeJSON(r, &dst); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/x", nil)
		r.SetPathValue("id", tt.raw)
		got, err := PathID(r, "id")
		if (err != nil) != tt.wantErr {
			t.Fatalf("PathID(%q) err = %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("PathID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
