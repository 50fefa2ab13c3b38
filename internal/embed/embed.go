// Package embed rewrites YouTube watch/shorts/live/short-link URLs into
// their canonical /embed/ player form, carrying over start time and
// playlist context. It is a pure function over strings: no I/O, no state.
package embed

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mmuslimabdulj/tabembed/internal/telemetry"
)

const (
	// EmbedPrefix is the canonical player path prefix
	EmbedPrefix = "/embed/"

	// targetBase is fixed regardless of which recognized host the source used
	targetScheme = "https"
	targetHost   = "www.youtube.com"
)

// firstPartyHosts are the exact hostnames treated as the main video site
var firstPartyHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
}

// shortLinkHost carries the video ID directly in its path
const shortLinkHost = "youtu.be"

// playlistIDRegex matches valid playlist IDs (alphanumeric, - and _)
var playlistIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// rule is one row of the identifier dispatch table: if match returns true
// for the parsed URL, extract yields the video ID (possibly empty)
type rule struct {
	match   func(u *url.URL) bool
	extract func(u *url.URL) string
}

// rules are evaluated in order, first match wins
var rules = []rule{
	{
		// youtube.com/watch?v=ID
		match: func(u *url.URL) bool {
			return firstPartyHosts[u.Hostname()] && u.Path == "/watch"
		},
		extract: func(u *url.URL) string {
			return u.Query().Get("v")
		},
	},
	{
		// youtube.com/shorts/ID
		match: func(u *url.URL) bool {
			return firstPartyHosts[u.Hostname()] && strings.HasPrefix(u.Path, "/shorts/")
		},
		extract: func(u *url.URL) string {
			return strings.TrimPrefix(u.Path, "/shorts/")
		},
	},
	{
		// youtube.com/live/ID
		match: func(u *url.URL) bool {
			return firstPartyHosts[u.Hostname()] && strings.HasPrefix(u.Path, "/live/")
		},
		extract: func(u *url.URL) string {
			return strings.TrimPrefix(u.Path, "/live/")
		},
	},
	{
		// youtu.be/ID
		match: func(u *url.URL) bool {
			return u.Hostname() == shortLinkHost
		},
		extract: func(u *url.URL) string {
			return strings.TrimPrefix(u.Path, "/")
		},
	},
}

// Transform rewrites a YouTube URL into its /embed/ form. The second
// return value is false when no transformation applies: unparsable input,
// unrecognized host/path, missing video ID, or an already-canonical URL.
// It never panics and never returns an error
func Transform(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		// Malformed input is an expected outcome, not a fault
		log.WithError(err).WithField("url", raw).Warn("Could not parse URL")
		telemetry.Transforms.WithLabelValues("parse_error").Inc()
		return "", false
	}

	// Already canonical, leave it alone
	if strings.HasPrefix(u.Path, EmbedPrefix) {
		telemetry.Transforms.WithLabelValues("skipped").Inc()
		return "", false
	}

	var videoID string
	for _, r := range rules {
		if r.match(u) {
			videoID = r.extract(u)
			break
		}
	}
	if videoID == "" {
		telemetry.Transforms.WithLabelValues("skipped").Inc()
		return "", false
	}

	target := &url.URL{
		Scheme: targetScheme,
		Host:   targetHost,
		Path:   EmbedPrefix + videoID,
	}

	query := url.Values{}
	if t := u.Query().Get("t"); t != "" {
		if start, ok := parseLeadingInt(t); ok {
			query.Set("start", strconv.Itoa(start))
		}
	}
	if list := u.Query().Get("list"); list != "" && IsValidPlaylistID(list) {
		query.Set("list", list)
	}
	target.RawQuery = query.Encode()

	telemetry.Transforms.WithLabelValues("transformed").Inc()
	return target.String(), true
}

// IsValidPlaylistID reports whether the value is a well-formed playlist ID
// (one or more alphanumeric characters, underscore or hyphen)
func IsValidPlaylistID(list string) bool {
	return playlistIDRegex.MatchString(list)
}

// parseLeadingInt parses the longest run of decimal digits at the start of
// the string, so "123s" yields 123 and "007" yields 7. An empty run is a
// parse failure
func parseLeadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
