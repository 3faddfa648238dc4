package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testClient() *Client {
	return NewClient(5*time.Second, 3, 0)
}

func TestGetJSON_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := testClient().GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Error("expected decoded payload")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestGetJSON_ExhaustedRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var out any
	err := testClient().GetJSON(context.Background(), srv.URL, &out)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestGetJSON_RejectsHTMLErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some providers return error pages with a 200 status.
		w.Write([]byte("<!DOCTYPE html><html><body>oops</body></html>"))
	}))
	defer srv.Close()

	var out any
	if err := testClient().GetJSON(context.Background(), srv.URL, &out); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData for HTML body, got %v", err)
	}
}

func TestGetJSON_SendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out []any
	if err := testClient().GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != userAgent {
		t.Errorf("expected browser user agent, got %q", gotUA)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"1,234.5", 1234.5},
		{"-", 0},
		{"--", 0},
		{"", 0},
		{nil, 0},
		{"12.3", 12.3},
		{float64(7), 7},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := ParseNumber(tt.in); got != tt.want {
			t.Errorf("ParseNumber(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOptionalNumber(t *testing.T) {
	if v := ParseOptionalNumber("-"); v != nil {
		t.Errorf("expected nil for '-', got %v", *v)
	}
	if v := ParseOptionalNumber("0"); v == nil || *v != 0 {
		t.Error("literal zero must stay distinguishable from absent")
	}
	if v := ParseOptionalNumber("12.5"); v == nil || *v != 12.5 {
		t.Error("expected 12.5")
	}
}
