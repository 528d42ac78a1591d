package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaProvider_Summarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("expected non-streaming request")
		}
		if req.Model != "mistral" {
			t.Errorf("expected model mistral, got %s", req.Model)
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:     "mistral",
			Response:  "Resumen del análisis documental.",
			Done:      true,
			EvalCount: 42,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL:          server.URL,
		Model:            "mistral",
		RedactIndicators: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		Report: testReport(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.Summary != "Resumen del análisis documental." {
		t.Errorf("unexpected summary: %q", resp.Summary)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("expected 42 tokens, got %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_IndicatorLeakRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaResponse{
			Model:    "mistral",
			Response: "El titular tiene DNI/NIE: 12345678Z.",
			Done:     true,
		})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL:          server.URL,
		Model:            "mistral",
		RedactIndicators: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{
		Report:           testReport(),
		RedactIndicators: true,
	})
	if err == nil {
		t.Fatal("Expected leak error, got nil")
	}
	if !strings.Contains(err.Error(), "INDICATOR LEAK") {
		t.Errorf("Expected leak error, got %v", err)
	}
}

func TestOllamaProvider_MissingModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Report: testReport()})
	if err == nil {
		t.Error("Expected error when no model configured")
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ollamaError{Error: "model not found"})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Report: testReport()})
	if err == nil {
		t.Fatal("Expected API error, got nil")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected model not found in error, got %v", err)
	}
}

func TestOllamaProvider_ProxyNoProxyBypass(t *testing.T) {
	provider, err := NewOllamaProvider(Config{
		HTTPProxy: "http://proxy.interno:3128",
		NoProxy:   "localhost,interno.es",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	proxyFunc := provider.httpClient.Transport.(*http.Transport).Proxy

	req, _ := http.NewRequest(http.MethodGet, "http://localhost:11434/api/generate", nil)
	proxyURL, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if proxyURL != nil {
		t.Errorf("Expected no_proxy host to bypass the proxy, got %v", proxyURL)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://ollama.example.com:11434/api/generate", nil)
	proxyURL, err = proxyFunc(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "proxy.interno:3128" {
		t.Errorf("Expected explicit proxy for external host, got %v", proxyURL)
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}

	server.Close()
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be unavailable after server close")
	}
}
