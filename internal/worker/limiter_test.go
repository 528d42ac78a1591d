package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://sede.madrid.es/expediente"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host has its own token bucket
	if err := limiter.Wait(ctx, "https://sede.valencia.es"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "https://sede.madrid.es"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is consumed
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different host is unaffected
	if !limiter.Allow("https://sede.sevilla.es") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	host := "lento.ayto.es"

	limiter.SetHostRate(host, 0.1, 1)

	if !limiter.Allow("https://" + host) {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("https://" + host) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("https://rapido.ayto.es") {
		t.Errorf("other host should pass")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("https://sede.madrid.es/tramites/123")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "sede.madrid.es" {
		t.Errorf("expected sede.madrid.es, got %s", host)
	}

	_, err = extractHost("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
