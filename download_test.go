package camerafy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg; charset=binary")
		_, _ = w.Write([]byte("FAKEJPEGDATA"))
	}))
	defer srv.Close()

	cfg := &Config{HTTPClient: srv.Client(), UserAgent: "camerafy-test"}
	res, err := cfg.Fetch(context.Background(), srv.URL+"/photo.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatal("expected result, got nil")
	}
	if res.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", res.MIMEType)
	}
	if string(res.Data) != "FAKEJPEGDATA" {
		t.Errorf("Data = %q", res.Data)
	}
	if gotUA != "camerafy-test" {
		t.Errorf("User-Agent = %q, want camerafy-test", gotUA)
	}
}

func TestFetch_NilResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-image content type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "image/png")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			res, err := (&Config{HTTPClient: srv.Client()}).Fetch(context.Background(), srv.URL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
		})
	}
}

func TestFetch_MaxBytes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(strings.Repeat("X", 100)))
	}))
	defer srv.Close()

	res, err := (&Config{HTTPClient: srv.Client(), MaxUploadBytes: 10}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || len(res.Data) != 10 {
		t.Fatalf("expected 10 bytes, got %+v", res)
	}
}

func TestFetch_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := &Config{HTTPClient: srv.Client(), FetchTimeout: 50 * time.Millisecond}
	if _, err := cfg.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}

func TestFetch_BadURL(t *testing.T) {
	t.Parallel()

	if _, err := (&Config{}).Fetch(context.Background(), "://bad"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
