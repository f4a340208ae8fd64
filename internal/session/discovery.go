package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxDiscovered caps how many session logs discovery returns. Refs are
// sorted newest-first before the cap is applied, so only the oldest logs
// are dropped.
const maxDiscovered = 100

// maxWalkDepth bounds the directory walk under the sessions root.
const maxWalkDepth = 4

// DiscoverOptions controls which session logs Discover returns.
type DiscoverOptions struct {
	// CurrentDirOnly keeps only sessions whose recorded working directory
	// matches CWD. Logs that recorded no working directory are kept.
	CurrentDirOnly bool
	CWD            string
}

// Discover walks root for .jsonl session logs and returns refs sorted by
// modification time, newest first, capped at maxDiscovered.
func Discover(root string, opts DiscoverOptions) ([]FileRef, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("sessions root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sessions root %s is not a directory", root)
	}

	var refs []FileRef
	walk(root, root, maxWalkDepth, &refs)

	if opts.CurrentDirOnly {
		filtered := refs[:0]
		for _, ref := range refs {
			meta, err := QuickMeta(ref)
			if err != nil {
				continue
			}
			if meta.WorkingDir == "" || meta.WorkingDir == opts.CWD {
				filtered = append(filtered, ref)
			}
		}
		refs = filtered
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].ModTime.After(refs[j].ModTime)
	})
	if len(refs) > maxDiscovered {
		refs = refs[:maxDiscovered]
	}
	return refs, nil
}

func walk(root, dir string, depth int, refs *[]FileRef) {
	if depth == 0 {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			walk(root, path, depth-1, refs)
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = entry.Name()
		}
		*refs = append(*refs, FileRef{Path: path, RelPath: rel, ModTime: fi.ModTime()})
	}
}

// DefaultRoot returns the conventional sessions directory.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// FormatRelAge renders a timestamp as a compact relative age ("3h ago").
func FormatRelAge(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return fmt.Sprintf("%ds ago", int(diff.Seconds()))
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(diff.Hours()/(24*7)))
	case diff < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(diff.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(diff.Hours()/(24*365)))
	}
}
