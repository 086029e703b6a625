// Package updater checks GitHub releases for a newer arrayprism and replaces
// the running binary on request.
package updater

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const (
	// DefaultSlug is the GitHub repository releases are published to
	DefaultSlug      = "CaptShanks/arrayprism"
	installScriptURL = "https://raw.githubusercontent.com/CaptShanks/arrayprism/main/install.sh"

	defaultIntervalDays = 7
	cacheFileName       = "update-check"
)

// Checker looks up the latest release for Slug
type Checker struct {
	Slug     string
	Current  string
	CacheDir string
	// Interval is the minimum time between network checks
	Interval time.Duration

	// detect returns the latest released version; replaced in tests
	detect func(slug string) (string, bool, error)
	now    func() time.Time
}

// NewChecker creates a Checker caching results in cacheDir. intervalDays
// defaults to 7 when not positive.
func NewChecker(current, cacheDir string, intervalDays int) *Checker {
	if intervalDays <= 0 {
		intervalDays = defaultIntervalDays
	}
	return &Checker{
		Slug:     DefaultSlug,
		Current:  current,
		CacheDir: cacheDir,
		Interval: time.Duration(intervalDays) * 24 * time.Hour,
		detect:   detectLatest,
		now:      time.Now,
	}
}

func detectLatest(slug string) (string, bool, error) {
	latest, found, err := selfupdate.DetectLatest(slug)
	if err != nil || !found {
		return "", false, err
	}
	return latest.Version.String(), true, nil
}

// CheckLatest fetches the latest release from GitHub and compares it with
// the current version. Returns (latestVersion, hasUpdate, err).
func (c *Checker) CheckLatest() (latestVersion string, hasUpdate bool, err error) {
	latest, found, err := c.detect(c.Slug)
	if err != nil || !found {
		return "", false, err
	}
	latestVersion = normalizeVersion(latest)
	hasUpdate, err = IsNewer(latestVersion, c.Current)
	return latestVersion, hasUpdate, err
}

// IsNewer reports whether latest is a higher semantic version than current
func IsNewer(latest, current string) (bool, error) {
	latestSemver, err := semver.Parse(normalizeVersion(latest))
	if err != nil {
		return false, err
	}
	currentSemver, err := semver.Parse(normalizeVersion(current))
	if err != nil {
		return false, err
	}
	return latestSemver.GT(currentSemver), nil
}

// Upgrade replaces the current binary with the latest release and returns
// the new version.
func (c *Checker) Upgrade() (newVersion string, err error) {
	v, err := semver.Parse(normalizeVersion(c.Current))
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", c.Current, err)
	}

	latest, err := selfupdate.UpdateSelf(v, c.Slug)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// CurlFallbackMessage returns the message to display when self-update fails.
func CurlFallbackMessage(reason error) string {
	return fmt.Sprintf(`Self-update failed: %v
To upgrade manually, run:
  curl -sSfL %s | sh`, reason, installScriptURL)
}

func normalizeVersion(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}

// updateCache holds cached update check results.
type updateCache struct {
	LastCheckEpoch int64  `json:"last_check_epoch"`
	LatestVersion  string `json:"latest_version,omitempty"`
	HasUpdate      bool   `json:"has_update"`
}

func (c *Checker) cachePath() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

// CheckLatestWithCache checks for updates, but only if the interval has
// elapsed since the last network check. Within the interval the cached
// result is returned.
func (c *Checker) CheckLatestWithCache() (latestVersion string, hasUpdate bool, err error) {
	path := c.cachePath()

	if data, err := os.ReadFile(path); err == nil {
		var cache updateCache
		if json.Unmarshal(data, &cache) == nil {
			age := c.now().Sub(time.Unix(cache.LastCheckEpoch, 0))
			if age >= 0 && age < c.Interval {
				return cache.LatestVersion, cache.HasUpdate, nil
			}
		}
	}

	latest, hasUpdate, err := c.CheckLatest()
	if err != nil {
		return "", false, err
	}

	cache := updateCache{
		LastCheckEpoch: c.now().Unix(),
		LatestVersion:  latest,
		HasUpdate:      hasUpdate,
	}
	if data, err := json.Marshal(cache); err == nil {
		if os.MkdirAll(c.CacheDir, 0755) == nil {
			_ = os.WriteFile(path, data, 0644)
		}
	}

	return latest, hasUpdate, nil
}
