package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jcarril/tramita/internal/model"
)

func testFetcherConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.UserAgent = "test-agent"
	cfg.RateLimiting.RequestsPerSecond = 100
	cfg.RateLimiting.BurstSize = 100
	return cfg
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprint(w, "LICENCIA DE APERTURA")
	}))
	defer server.Close()

	fetcher := NewFetcher(testFetcherConfig())
	result, err := fetcher.Fetch(context.Background(), server.URL+"/doc.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(result.Content) != "LICENCIA DE APERTURA" {
		t.Errorf("Unexpected content: %s", result.Content)
	}
	if !strings.Contains(result.ContentType, "text/plain") {
		t.Errorf("Unexpected content type: %s", result.ContentType)
	}
}

func TestFetch_TransientThenSuccess(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, "contenido")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testFetcherConfig())
	result, err := fetcher.Fetch(context.Background(), server.URL+"/doc.txt")
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if string(result.Content) != "contenido" {
		t.Errorf("Unexpected content: %s", result.Content)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetch_PermanentFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testFetcherConfig())
	_, err := fetcher.Fetch(context.Background(), server.URL+"/doc.txt")
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	// 404 is not retryable, so it must fail immediately
	if attempts.Load() != 1 {
		t.Errorf("Expected 1 attempt for 404, got %d", attempts.Load())
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /privado/\n")
			return
		}
		_, _ = fmt.Fprint(w, "contenido")
	}))
	defer server.Close()

	fetcher := NewFetcher(testFetcherConfig())

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/publico/doc.txt"); err != nil {
		t.Errorf("Expected allowed path to succeed, got %v", err)
	}

	_, err := fetcher.Fetch(context.Background(), server.URL+"/privado/doc.txt")
	if err == nil {
		t.Fatal("Expected robots disallow error, got nil")
	}
	if !strings.Contains(err.Error(), "robots.txt") {
		t.Errorf("Expected robots.txt in error, got %v", err)
	}
}

func TestFetch_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(make([]byte, 1000))
	}))
	defer server.Close()

	cfg := testFetcherConfig()
	cfg.HTTP.MaxBodyBytes = 100

	fetcher := NewFetcher(cfg)
	result, err := fetcher.Fetch(context.Background(), server.URL+"/doc.txt")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Content) != 100 {
		t.Errorf("Expected body truncated at 100 bytes, got %d", len(result.Content))
	}
}
