// Package browser talks to a Chromium-family browser over the DevTools
// protocol: the HTTP endpoint for target discovery, a WebSocket session
// per target for commands
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/mmuslimabdulj/tabembed/internal/domain"
)

const (
	// targetsCacheKey is the single cache slot for the /json/list result
	targetsCacheKey = "targets"

	// targetsCacheTTL keeps hotkey mashing from hammering the browser
	targetsCacheTTL = 1 * time.Second

	// listAttempts applies to target discovery; the browser may still be
	// starting up when the first trigger arrives
	listAttempts = 3
	listDelay    = 200 * time.Millisecond
)

var (
	// ErrNoActiveTab is returned when the browser reports no page targets
	ErrNoActiveTab = errors.New("browser: no active tab")

	// ErrTabWithoutURL is returned when the chosen tab has no usable URL
	ErrTabWithoutURL = errors.New("browser: tab has no URL")
)

// Client is a DevTools client bound to one browser debug endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	targets    *cache.Cache
}

// NewClient creates a Client for the given DevTools base URL,
// e.g. http://127.0.0.1:9222
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		targets:    cache.New(targetsCacheTTL, 10*targetsCacheTTL),
	}
}

// Ping checks that the DevTools endpoint is reachable. Used by /health
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("browser: devtools endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// ListTargets returns all DevTools targets, cached briefly
func (c *Client) ListTargets(ctx context.Context) ([]domain.Tab, error) {
	if cached, found := c.targets.Get(targetsCacheKey); found {
		return cached.([]domain.Tab), nil
	}

	var tabs []domain.Tab
	err := retry.Do(
		func() error {
			fetched, err := c.fetchTargets(ctx)
			if err != nil {
				return err
			}
			tabs = fetched
			return nil
		},
		retry.Attempts(listAttempts),
		retry.Delay(listDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, err
	}

	c.targets.Set(targetsCacheKey, tabs, cache.DefaultExpiration)
	return tabs, nil
}

// ActiveTab returns the frontmost page target. DevTools lists targets in
// recency order, so the first page target is the active tab
func (c *Client) ActiveTab(ctx context.Context) (*domain.Tab, error) {
	tabs, err := c.ListTargets(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tabs {
		tab := &tabs[i]
		if !tab.IsPage() {
			continue
		}
		// Skip the devtools frontend itself
		if strings.HasPrefix(tab.URL, "devtools://") {
			continue
		}
		if !tab.HasURL() {
			return nil, ErrTabWithoutURL
		}
		return tab, nil
	}

	return nil, ErrNoActiveTab
}

// Navigate points the tab at the given URL via Page.navigate
func (c *Client) Navigate(ctx context.Context, tab *domain.Tab, rawURL string) error {
	if tab.WebSocketDebuggerURL == "" {
		return fmt.Errorf("browser: tab %s has no debugger URL", tab.ID)
	}

	s, err := dialSession(ctx, tab.WebSocketDebuggerURL)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.Call(ctx, "Page.navigate", map[string]interface{}{"url": rawURL})
	if err != nil {
		return err
	}

	// Page.navigate reports per-navigation errors in the result body
	var nav struct {
		ErrorText string `json:"errorText"`
	}
	if err := json.Unmarshal(result, &nav); err == nil && nav.ErrorText != "" {
		return fmt.Errorf("browser: navigation failed: %s", nav.ErrorText)
	}

	// The old target list is stale after a navigation
	c.targets.Delete(targetsCacheKey)

	log.WithField("tab", tab.ID).WithField("url", rawURL).Info("Tab navigated")
	return nil
}

// fetchTargets does one GET /json/list round trip
func (c *Client) fetchTargets(ctx context.Context) ([]domain.Tab, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/json/list", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("browser: devtools endpoint returned %d", resp.StatusCode)
	}

	var tabs []domain.Tab
	if err := json.NewDecoder(resp.Body).Decode(&tabs); err != nil {
		return nil, fmt.Errorf("browser: decoding target list: %w", err)
	}
	return tabs, nil
}
