package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate checks robots.txt before remote documents are downloaded.
// Parsed robots data is cached per host for the lifetime of the gate.
type RobotsGate struct {
	cache      map[string]*robotstxt.RobotsData
	mu         sync.RWMutex
	httpClient *http.Client
	userAgent  string
}

// NewRobotsGate creates a robots.txt gate for the given user agent.
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		cache:      make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable or
// missing robots.txt allows the fetch; an explicit disallow blocks it.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	data, err := g.robotsData(ctx, parsed)
	if err != nil {
		return true, nil
	}

	return data.TestAgent(parsed.Path, g.userAgent), nil
}

func (g *RobotsGate) robotsData(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, cached := g.cache[target.Host]
	g.mu.RUnlock()
	if cached {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.cache[target.Host] = data
	g.mu.Unlock()

	return data, nil
}

// Clear drops all cached robots data.
func (g *RobotsGate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache = make(map[string]*robotstxt.RobotsData)
}
