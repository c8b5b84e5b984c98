// Package update checks GitHub for newer releases.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultURL is the latest-release endpoint of the project.
	DefaultURL = "https://api.github.com/repos/fikrisyahid/adzanid/releases/latest"
	// DownloadURL is where users fetch new builds.
	DownloadURL = "https://adzanid.fikrisyahid.my.id/"
)

// Result is the outcome of one check.
type Result struct {
	Current         string `json:"current_version"`
	Latest          string `json:"latest_version,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
	DownloadURL     string `json:"download_url"`
}

// Checker queries the releases API.
type Checker struct {
	url     string
	current string
	client  *http.Client
}

// NewChecker creates a checker comparing releases at url against current.
func NewChecker(url, current string) *Checker {
	if url == "" {
		url = DefaultURL
	}
	return &Checker{
		url:     url,
		current: strings.TrimPrefix(current, "v"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// Check fetches the latest release. An unparsable version on either side
// never reports an update.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	res := Result{Current: c.current, DownloadURL: DownloadURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return res, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("fetching latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("releases API returned status %d", resp.StatusCode)
	}

	var body struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return res, fmt.Errorf("decoding release: %w", err)
	}

	res.Latest = strings.TrimPrefix(body.TagName, "v")
	res.UpdateAvailable = Newer(res.Latest, c.current)
	return res, nil
}

// Newer reports whether latest is a higher semantic version than current.
// Both may omit the leading "v".
func Newer(latest, current string) bool {
	l, c := "v"+strings.TrimPrefix(latest, "v"), "v"+strings.TrimPrefix(current, "v")
	if !semver.IsValid(l) || !semver.IsValid(c) {
		return false
	}
	return semver.Compare(l, c) > 0
}
