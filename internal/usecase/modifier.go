// Package usecase wires the trigger surface to the browser: it receives
// command names, transforms the active tab's URL and navigates the tab
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/mmuslimabdulj/tabembed/internal/browser"
	"github.com/mmuslimabdulj/tabembed/internal/domain"
	"github.com/mmuslimabdulj/tabembed/internal/embed"
	"github.com/mmuslimabdulj/tabembed/internal/telemetry"
)

// TabQuerier yields the active browser tab, if any
type TabQuerier interface {
	ActiveTab(ctx context.Context) (*domain.Tab, error)
}

// Navigator points a tab at a new URL
type Navigator interface {
	Navigate(ctx context.Context, tab *domain.Tab, rawURL string) error
}

// TransformFunc is the URL transformer contract: either a rewritten URL
// and true, or false for "no transformation"
type TransformFunc func(raw string) (string, bool)

// Modifier handles trigger commands against the active tab
type Modifier struct {
	tabs      TabQuerier
	navigator Navigator
	transform TransformFunc

	mu      sync.Mutex
	history *RingBuffer

	// recent debounces the hotkey: a URL we just rewrote is not rewritten
	// again while its cache entry lives
	recent *cache.Cache
}

// NewModifier creates a Modifier with the given collaborators
func NewModifier(tabs TabQuerier, navigator Navigator, historySize int, debounce time.Duration) *Modifier {
	return &Modifier{
		tabs:      tabs,
		navigator: navigator,
		transform: embed.Transform,
		history:   NewRingBuffer(historySize),
		recent:    cache.New(debounce, 10*debounce),
	}
}

// Transform runs the URL transformer without touching the browser
func (m *Modifier) Transform(raw string) (string, bool) {
	return m.transform(raw)
}

// History returns recent navigations, oldest first
func (m *Modifier) History() []domain.NavigationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.GetAll()
}

// HandleCommand processes one trigger event. Inapplicable input is a
// silent no-op: unknown commands, missing tabs and untransformable URLs
// all return nil
func (m *Modifier) HandleCommand(ctx context.Context, event *domain.TriggerEvent) error {
	logger := log.WithField("event_id", event.ID).WithField("command", event.Command)

	if event.Command != domain.CommandModifyYouTubeLink {
		logger.Debug("Ignoring unknown command")
		return nil
	}
	telemetry.Triggers.WithLabelValues(event.Command).Inc()

	tab, err := m.tabs.ActiveTab(ctx)
	if err != nil {
		// No tab or no URL means the core is simply never invoked
		if errors.Is(err, browser.ErrNoActiveTab) || errors.Is(err, browser.ErrTabWithoutURL) {
			logger.WithError(err).Debug("No usable tab")
			return nil
		}
		return err
	}

	if _, seen := m.recent.Get(tab.URL); seen {
		logger.Debug("Debounced repeated trigger")
		return nil
	}

	// Transform outcomes (transformed/skipped/parse_error) are counted
	// inside the transformer itself
	target, ok := m.transform(tab.URL)
	if !ok {
		return nil
	}

	if err := m.navigator.Navigate(ctx, tab, target); err != nil {
		telemetry.Navigations.WithLabelValues("error").Inc()
		logger.WithError(err).Error("Could not navigate tab")
		return err
	}
	telemetry.Navigations.WithLabelValues("ok").Inc()

	m.recent.Set(tab.URL, struct{}{}, cache.DefaultExpiration)
	// The target URL is already canonical, but remembering it too keeps
	// a trigger on the freshly navigated tab quiet
	m.recent.Set(target, struct{}{}, cache.DefaultExpiration)

	m.mu.Lock()
	m.history.Add(domain.NewNavigationRecord(tab.URL, target))
	m.mu.Unlock()

	return nil
}
