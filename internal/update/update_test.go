package update

import (
	"testing"
	"time"
)

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "1.1.9", 1},
		{"0.9.0", "1.0.0", -1},
		{"2.0", "2.0.0", 0},
		{"1", "1.0.1", -1},
		{"dev", "1.0.0", -1},
	}
	for _, c := range cases {
		if got := CompareVersions(c.a, c.b); got != c.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestCacheRoundTrip(t *testing.T) {
	t.Setenv("RESUME_DECK_DIR", t.TempDir())

	if _, err := loadCache(); err == nil {
		t.Fatal("expected error loading missing cache")
	}

	want := &checkCache{
		CheckedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		LatestVersion: "1.4.0",
		ReleaseURL:    "https://example.com/release",
	}
	if err := saveCache(want); err != nil {
		t.Fatalf("saveCache failed: %v", err)
	}

	got, err := loadCache()
	if err != nil {
		t.Fatalf("loadCache failed: %v", err)
	}
	if got.LatestVersion != want.LatestVersion || got.ReleaseURL != want.ReleaseURL {
		t.Errorf("cache mismatch: %+v", got)
	}
	if !got.CheckedAt.Equal(want.CheckedAt) {
		t.Errorf("expected checked_at %v, got %v", want.CheckedAt, got.CheckedAt)
	}
}

func TestCheckUsesFreshCache(t *testing.T) {
	t.Setenv("RESUME_DECK_DIR", t.TempDir())

	if err := saveCache(&checkCache{
		CheckedAt:     time.Now(),
		LatestVersion: "9.9.9",
		ReleaseURL:    "https://example.com/r",
	}); err != nil {
		t.Fatalf("saveCache failed: %v", err)
	}

	// A fresh cache means no network call is made.
	info, err := Check("1.0.0")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !info.Available {
		t.Error("expected update available against cached 9.9.9")
	}
	if info.LatestVersion != "9.9.9" {
		t.Errorf("expected cached version, got %q", info.LatestVersion)
	}
}
