package domain

// Tab describes a single browser page target as reported by the
// DevTools HTTP endpoint (/json/list)
type Tab struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"` // "page", "background_page", "service_worker", ...
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

// IsPage reports whether the target is a regular browser tab
func (t *Tab) IsPage() bool {
	return t.Type == "page"
}

// HasURL reports whether the tab exposes a usable URL.
// Some targets (crash pages, freshly spawned tabs) report an empty URL
func (t *Tab) HasURL() bool {
	return t.URL != ""
}
