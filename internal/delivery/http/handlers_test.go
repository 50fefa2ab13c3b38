package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmuslimabdulj/tabembed/internal/browser"
	"github.com/mmuslimabdulj/tabembed/internal/domain"
	"github.com/mmuslimabdulj/tabembed/internal/usecase"
)

type stubQuerier struct {
	tab *domain.Tab
}

func (s *stubQuerier) ActiveTab(ctx context.Context) (*domain.Tab, error) {
	if s.tab == nil {
		return nil, browser.ErrNoActiveTab
	}
	return s.tab, nil
}

type stubNavigator struct {
	navigated chan string
}

func (s *stubNavigator) Navigate(ctx context.Context, tab *domain.Tab, rawURL string) error {
	s.navigated <- rawURL
	return nil
}

func setupTestHandler(tab *domain.Tab) (*Handler, *stubNavigator) {
	nav := &stubNavigator{navigated: make(chan string, 1)}
	modifier := usecase.NewModifier(&stubQuerier{tab: tab}, nav, 10, time.Second)
	return NewHandler(modifier, 2*time.Second), nav
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Could not marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleTrigger_Accepted(t *testing.T) {
	tab := &domain.Tab{ID: "tab1", Type: "page", URL: "https://www.youtube.com/watch?v=abc123"}
	h, nav := setupTestHandler(tab)

	w := postJSON(t, h.HandleTrigger, "/trigger", map[string]string{"command": domain.CommandModifyYouTubeLink})

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp["status"] != "accepted" {
		t.Errorf("Expected status accepted, got %s", resp["status"])
	}
	if resp["id"] == "" {
		t.Error("Expected an event id in the response")
	}

	// The navigation happens asynchronously
	select {
	case url := <-nav.navigated:
		if url != "https://www.youtube.com/embed/abc123" {
			t.Errorf("Expected embed URL, got %s", url)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected navigation to happen")
	}
}

func TestHandleTrigger_UnknownCommandIgnored(t *testing.T) {
	h, nav := setupTestHandler(&domain.Tab{ID: "tab1", Type: "page", URL: "https://www.youtube.com/watch?v=abc123"})

	w := postJSON(t, h.HandleTrigger, "/trigger", map[string]string{"command": "open_settings"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for ignored command, got %d", w.Code)
	}

	select {
	case url := <-nav.navigated:
		t.Errorf("Expected no navigation, got %s", url)
	case <-time.After(100 * time.Millisecond):
		// Expected - nothing happened
	}
}

func TestHandleTrigger_NoTabIsStillAccepted(t *testing.T) {
	h, _ := setupTestHandler(nil)

	w := postJSON(t, h.HandleTrigger, "/trigger", map[string]string{"command": domain.CommandModifyYouTubeLink})

	// Collaborator failures never surface to the hotkey caller
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected 202 even without a tab, got %d", w.Code)
	}
}

func TestHandleTrigger_InvalidJSON(t *testing.T) {
	h, _ := setupTestHandler(nil)

	req := httptest.NewRequest("POST", "/trigger", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	h.HandleTrigger(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHandleTrigger_MethodNotAllowed(t *testing.T) {
	h, _ := setupTestHandler(nil)

	req := httptest.NewRequest("GET", "/trigger", nil)
	w := httptest.NewRecorder()
	h.HandleTrigger(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestHandleTransform(t *testing.T) {
	h, _ := setupTestHandler(nil)

	tests := []struct {
		name        string
		url         string
		expected    string
		transformed bool
	}{
		{"Watch URL", "https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/embed/abc123", true},
		{"Short link with timestamp", "https://youtu.be/abc123?t=90", "https://www.youtube.com/embed/abc123?start=90", true},
		{"Unrecognized host", "https://example.com/watch?v=abc123", "", false},
		{"Garbage", "not a url", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, h.HandleTransform, "/api/transform", map[string]string{"url": tc.url})

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}

			var resp struct {
				URL         string `json:"url"`
				Transformed bool   `json:"transformed"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Could not decode response: %v", err)
			}
			if resp.Transformed != tc.transformed {
				t.Errorf("Expected transformed=%v, got %v", tc.transformed, resp.Transformed)
			}
			if resp.URL != tc.expected {
				t.Errorf("Expected URL %q, got %q", tc.expected, resp.URL)
			}
		})
	}
}

func TestHandleHistory_EmptyIsJSONArray(t *testing.T) {
	h, _ := setupTestHandler(nil)

	req := httptest.NewRequest("GET", "/api/history", nil)
	w := httptest.NewRecorder()
	h.HandleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var records []domain.NavigationRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("Expected a JSON array, got error %v (body %q)", err, w.Body.String())
	}
	if len(records) != 0 {
		t.Errorf("Expected empty history, got %d records", len(records))
	}
}

func TestHandleHistory_AfterNavigation(t *testing.T) {
	tab := &domain.Tab{ID: "tab1", Type: "page", URL: "https://www.youtube.com/watch?v=abc123"}
	h, nav := setupTestHandler(tab)

	postJSON(t, h.HandleTrigger, "/trigger", map[string]string{"command": domain.CommandModifyYouTubeLink})

	select {
	case <-nav.navigated:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected navigation to happen")
	}

	// The history entry is written after the navigator returns; give the
	// goroutine a moment to finish
	deadline := time.Now().Add(time.Second)
	for {
		req := httptest.NewRequest("GET", "/api/history", nil)
		w := httptest.NewRecorder()
		h.HandleHistory(w, req)

		var records []domain.NavigationRecord
		if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
			t.Fatalf("Could not decode history: %v", err)
		}
		if len(records) == 1 {
			if records[0].From != tab.URL {
				t.Errorf("Expected From %q, got %q", tab.URL, records[0].From)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 1 history record, got %d", len(records))
		}
		time.Sleep(10 * time.Millisecond)
	}
}
