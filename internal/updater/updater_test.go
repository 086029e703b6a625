package updater

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestChecker(t *testing.T, current, latest string) (*Checker, *int) {
	t.Helper()
	calls := 0
	c := NewChecker(current, t.TempDir(), 7)
	c.detect = func(slug string) (string, bool, error) {
		calls++
		if slug != DefaultSlug {
			t.Errorf("slug = %q, want %q", slug, DefaultSlug)
		}
		return latest, latest != "", nil
	}
	return c, &calls
}

func TestCurlFallbackMessage(t *testing.T) {
	msg := CurlFallbackMessage(os.ErrPermission)
	if !strings.Contains(msg, "Self-update failed") {
		t.Errorf("expected message to contain 'Self-update failed', got: %s", msg)
	}
	if !strings.Contains(msg, "curl") || !strings.Contains(msg, "install.sh") {
		t.Errorf("expected curl install.sh fallback, got: %s", msg)
	}
}

func TestNewChecker_DefaultInterval(t *testing.T) {
	c := NewChecker("1.0.0", t.TempDir(), 0)
	if c.Interval != 7*24*time.Hour {
		t.Errorf("Interval = %v, want 7 days", c.Interval)
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.9", true},
		{"v1.2.0", "1.2.0", false},
		{"1.2.0", "v1.3.0", false},
	}
	for _, tt := range tests {
		got, err := IsNewer(tt.latest, tt.current)
		if err != nil {
			t.Errorf("IsNewer(%q, %q) error: %v", tt.latest, tt.current, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
	if _, err := IsNewer("1.0.0", "dev"); err == nil {
		t.Error("expected error for non-semver current version")
	}
}

func TestCheckLatest(t *testing.T) {
	c, _ := newTestChecker(t, "0.1.0", "v0.2.0")
	latest, hasUpdate, err := c.CheckLatest()
	if err != nil {
		t.Fatal(err)
	}
	if latest != "0.2.0" || !hasUpdate {
		t.Errorf("got %q, %v; want 0.2.0, true", latest, hasUpdate)
	}
}

func TestCheckLatest_NotFound(t *testing.T) {
	c, _ := newTestChecker(t, "0.1.0", "")
	latest, hasUpdate, err := c.CheckLatest()
	if err != nil || latest != "" || hasUpdate {
		t.Errorf("got %q, %v, %v", latest, hasUpdate, err)
	}
}

func TestCheckLatestWithCache(t *testing.T) {
	c, calls := newTestChecker(t, "0.1.0", "0.2.0")
	now := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, _, err := c.CheckLatestWithCache(); err != nil {
		t.Fatal(err)
	}
	if *calls != 1 {
		t.Fatalf("expected a network check, got %d", *calls)
	}

	data, err := os.ReadFile(filepath.Join(c.CacheDir, cacheFileName))
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	var cache updateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		t.Fatal(err)
	}
	if cache.LatestVersion != "0.2.0" || !cache.HasUpdate || cache.LastCheckEpoch != now.Unix() {
		t.Errorf("unexpected cache %+v", cache)
	}

	// Within the interval the cache answers
	c.now = func() time.Time { return now.Add(24 * time.Hour) }
	latest, hasUpdate, err := c.CheckLatestWithCache()
	if err != nil || latest != "0.2.0" || !hasUpdate {
		t.Errorf("cached result = %q, %v, %v", latest, hasUpdate, err)
	}
	if *calls != 1 {
		t.Errorf("expected cached answer, got %d network checks", *calls)
	}

	// After the interval the network is consulted again
	c.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	if _, _, err := c.CheckLatestWithCache(); err != nil {
		t.Fatal(err)
	}
	if *calls != 2 {
		t.Errorf("expected a second network check, got %d", *calls)
	}
}

func TestCheckLatestWithCache_ErrorNotCached(t *testing.T) {
	c := NewChecker("0.1.0", t.TempDir(), 7)
	c.detect = func(string) (string, bool, error) {
		return "", false, errors.New("rate limited")
	}
	if _, _, err := c.CheckLatestWithCache(); err == nil {
		t.Error("expected error")
	}
	if _, err := os.Stat(filepath.Join(c.CacheDir, cacheFileName)); !os.IsNotExist(err) {
		t.Error("failed checks must not be cached")
	}
}
