// Package update checks GitHub for newer resume-deck releases. The check
// is advisory only: the result is printed as a hint after the picker
// exits, never applied automatically.
package update

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/twistedxcom/resume-deck/internal/logging"
	"github.com/twistedxcom/resume-deck/internal/session"
)

const (
	githubRepo    = "twistedxcom/resume-deck"
	cacheFileName = "update-cache.json"

	// checkInterval is how long a cached check result stays fresh. One
	// GitHub API call per day is plenty for a hint.
	checkInterval = 24 * time.Hour
)

var updateLog = logging.ForComponent("update")

// Info describes the result of a version check.
type Info struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type checkCache struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
}

func cachePath() (string, error) {
	dir, err := session.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cacheFileName), nil
}

func loadCache() (*checkCache, error) {
	path, err := cachePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c checkCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func saveCache(c *checkCache) error {
	path, err := cachePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fetchLatest() (*release, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", githubRepo)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}
	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("parse release: %w", err)
	}
	return &rel, nil
}

// CompareVersions compares two dotted versions, ignoring a leading "v".
// Returns -1 when a < b, 0 when equal, 1 when a > b.
func CompareVersions(a, b string) int {
	pa := versionParts(a)
	pb := versionParts(b)
	for i := 0; i < 3; i++ {
		if pa[i] < pb[i] {
			return -1
		}
		if pa[i] > pb[i] {
			return 1
		}
	}
	return 0
}

func versionParts(v string) [3]int {
	var out [3]int
	parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		_, _ = fmt.Sscanf(parts[i], "%d", &out[i])
	}
	return out
}

// Check reports whether a newer release exists. A fresh cached result is
// used instead of hitting the GitHub API.
func Check(currentVersion string) (*Info, error) {
	info := &Info{CurrentVersion: currentVersion}

	if cache, err := loadCache(); err == nil && time.Since(cache.CheckedAt) < checkInterval {
		info.LatestVersion = cache.LatestVersion
		info.ReleaseURL = cache.ReleaseURL
		info.Available = CompareVersions(currentVersion, cache.LatestVersion) < 0
		return info, nil
	}

	rel, err := fetchLatest()
	if err != nil {
		return info, err
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	if err := saveCache(&checkCache{
		CheckedAt:     time.Now(),
		LatestVersion: latest,
		ReleaseURL:    rel.HTMLURL,
	}); err != nil {
		updateLog.Debug("cache_save_failed", slog.String("error", err.Error()))
	}

	info.LatestVersion = latest
	info.ReleaseURL = rel.HTMLURL
	info.Available = CompareVersions(currentVersion, latest) < 0
	return info, nil
}

// CheckAsync runs Check in the background. The channel delivers exactly
// one result; on error it reports no update.
func CheckAsync(currentVersion string) <-chan *Info {
	ch := make(chan *Info, 1)
	go func() {
		info, err := Check(currentVersion)
		if err != nil {
			updateLog.Debug("check_failed", slog.String("error", err.Error()))
			ch <- &Info{CurrentVersion: currentVersion}
			return
		}
		ch <- info
	}()
	return ch
}
