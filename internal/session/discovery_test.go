package session

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touchLog(t *testing.T, root, rel string, mtime time.Time, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

func TestDiscoverSortsNewestFirst(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	touchLog(t, root, "proj-a/old.jsonl", base.Add(-2*time.Hour), "{}")
	touchLog(t, root, "proj-a/new.jsonl", base, "{}")
	touchLog(t, root, "proj-b/mid.jsonl", base.Add(-1*time.Hour), "{}")
	touchLog(t, root, "proj-b/notes.txt", base, "not a log")

	refs, err := Discover(root, DiscoverOptions{})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("Expected 3 logs, got %d", len(refs))
	}
	if refs[0].RelPath != filepath.Join("proj-a", "new.jsonl") {
		t.Errorf("Expected newest first, got %q", refs[0].RelPath)
	}
	if refs[2].RelPath != filepath.Join("proj-a", "old.jsonl") {
		t.Errorf("Expected oldest last, got %q", refs[2].RelPath)
	}
}

func TestDiscoverCapsResults(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < maxDiscovered+20; i++ {
		touchLog(t, root, filepath.Join("p", fmt.Sprintf("s%03d.jsonl", i)),
			base.Add(time.Duration(i)*time.Minute), "{}")
	}

	refs, err := Discover(root, DiscoverOptions{})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(refs) != maxDiscovered {
		t.Errorf("Expected cap at %d, got %d", maxDiscovered, len(refs))
	}
	// The cap drops the oldest logs, not the newest.
	newest := base.Add(time.Duration(maxDiscovered+19) * time.Minute)
	if !refs[0].ModTime.Equal(newest) {
		t.Errorf("Expected newest log to survive the cap, got mtime %v", refs[0].ModTime)
	}
}

func TestDiscoverDepthLimit(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	// deep.jsonl sits at the walk depth limit; too-deep.jsonl is one below.
	touchLog(t, root, "a/b/c/deep.jsonl", now, "{}")
	touchLog(t, root, "a/b/c/d/too-deep.jsonl", now, "{}")

	refs, err := Discover(root, DiscoverOptions{})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("Expected 1 log within depth limit, got %d", len(refs))
	}
	if refs[0].RelPath != filepath.Join("a", "b", "c", "deep.jsonl") {
		t.Errorf("Unexpected ref %q", refs[0].RelPath)
	}
}

func TestDiscoverCurrentDirOnly(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	touchLog(t, root, "p/here.jsonl", now,
		`{"sessionId":"here","cwd":"/work/app","type":"user","message":{"role":"user","content":"x"}}`)
	touchLog(t, root, "p/elsewhere.jsonl", now.Add(-time.Minute),
		`{"sessionId":"elsewhere","cwd":"/work/other","type":"user","message":{"role":"user","content":"x"}}`)
	touchLog(t, root, "p/nodir.jsonl", now.Add(-2*time.Minute),
		`{"sessionId":"nodir","type":"user","message":{"role":"user","content":"x"}}`)

	refs, err := Discover(root, DiscoverOptions{CurrentDirOnly: true, CWD: "/work/app"})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected matching plus dirless logs, got %d", len(refs))
	}
	for _, ref := range refs {
		if ref.RelPath == filepath.Join("p", "elsewhere.jsonl") {
			t.Error("Log from another directory should be filtered out")
		}
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope"), DiscoverOptions{}); err == nil {
		t.Fatal("Expected error for missing root")
	}
}

func TestFormatRelAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "30s ago"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{2 * 7 * 24 * time.Hour, "2w ago"},
		{60 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, c := range cases {
		got := FormatRelAge(now.Add(-c.age), now)
		if got != c.want {
			t.Errorf("FormatRelAge(%v): expected %q, got %q", c.age, c.want, got)
		}
	}
	if got := FormatRelAge(time.Time{}, now); got != "-" {
		t.Errorf("Expected '-' for zero time, got %q", got)
	}
	if got := FormatRelAge(now.Add(time.Hour), now); got != "0s ago" {
		t.Errorf("Future timestamps clamp to now, got %q", got)
	}
}
