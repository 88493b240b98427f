package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPImageFetcher_StatusHandling(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectError   bool
		errorContains string
	}{
		{
			name:        "Success",
			status:      200,
			expectError: false,
		},
		{
			name:          "4xx client error",
			status:        404,
			expectError:   true,
			errorContains: "client error: status code 404",
		},
		{
			name:          "5xx server error is not retried",
			status:        503,
			expectError:   true,
			errorContains: "server error: status code 503",
		},
		{
			name:          "Unexpected 2xx",
			status:        204,
			expectError:   true,
			errorContains: "unexpected status code 204",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestCount := 0

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requestCount++
				if tt.status == 200 {
					w.Header().Set("Content-Type", "image/jpeg")
					w.Write([]byte("jpeg-bytes"))
					return
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(fmt.Sprintf("Error %d", tt.status)))
			}))
			defer server.Close()

			fetcher := NewHTTPImageFetcher(HTTPFetcherOptions{Timeout: 5 * time.Second})
			data, err := fetcher.FetchImage(context.Background(), server.URL)

			if requestCount != 1 {
				t.Errorf("Expected exactly 1 request, got %d", requestCount)
			}

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error, but got none")
				} else if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error to contain '%s', got: %s", tt.errorContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: %s", err.Error())
			}
			if string(data) != "jpeg-bytes" {
				t.Errorf("Expected body to be returned unchanged, got %q", data)
			}
		})
	}
}

func TestHTTPImageFetcher_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(HTTPFetcherOptions{MaxBytes: 1024})
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), ErrImageTooLarge.Error()) {
		t.Errorf("Expected size limit error, got %v", err)
	}

	fetcher = NewHTTPImageFetcher(HTTPFetcherOptions{MaxBytes: 2048})
	data, err := fetcher.FetchImage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected body at the limit to pass, got %v", err)
	}
	if len(data) != 2048 {
		t.Errorf("Expected 2048 bytes, got %d", len(data))
	}
}

func TestHTTPImageFetcher_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer server.Close()

	fetcher := NewHTTPImageFetcher(HTTPFetcherOptions{})
	_, err := fetcher.FetchImage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected network error")
	}
	if !strings.Contains(err.Error(), "failed to fetch image") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestHTTPImageFetcher_InvalidURL(t *testing.T) {
	fetcher := NewHTTPImageFetcher(HTTPFetcherOptions{})
	_, err := fetcher.FetchImage(context.Background(), "://missing-scheme")
	if err == nil || !strings.Contains(err.Error(), "invalid URL") {
		t.Errorf("Expected invalid URL error, got %v", err)
	}
}
