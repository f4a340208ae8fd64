package ui

import "github.com/twistedxcom/resume-deck/internal/session"

// previewKey identifies one rendered preview. A struct key rather than a
// concatenated string: paths may contain any separator we could pick.
type previewKey struct {
	path  string
	width int
}

// PrefetchCache holds the three per-session caches: quick metadata and
// summaries keyed by path, rendered previews keyed by (path, width).
// Entries live for the process lifetime unless the file is deleted.
//
// Only the picker's update loop reads or writes the cache; background
// workers deliver values as messages instead of touching it directly.
type PrefetchCache struct {
	meta    map[string]session.Meta
	summary map[string]session.Summary
	preview map[previewKey]string
}

// NewPrefetchCache creates an empty cache.
func NewPrefetchCache() *PrefetchCache {
	return &PrefetchCache{
		meta:    make(map[string]session.Meta),
		summary: make(map[string]session.Summary),
		preview: make(map[previewKey]string),
	}
}

func (c *PrefetchCache) Meta(path string) (session.Meta, bool) {
	m, ok := c.meta[path]
	return m, ok
}

func (c *PrefetchCache) SetMeta(path string, m session.Meta) {
	c.meta[path] = m
}

func (c *PrefetchCache) Summary(path string) (session.Summary, bool) {
	s, ok := c.summary[path]
	return s, ok
}

func (c *PrefetchCache) SetSummary(path string, s session.Summary) {
	c.summary[path] = s
}

func (c *PrefetchCache) Preview(path string, width int) (string, bool) {
	p, ok := c.preview[previewKey{path: path, width: width}]
	return p, ok
}

func (c *PrefetchCache) SetPreview(path string, width int, rendered string) {
	c.preview[previewKey{path: path, width: width}] = rendered
}

// InvalidatePreview drops every rendered preview for path, all widths.
func (c *PrefetchCache) InvalidatePreview(path string) {
	for key := range c.preview {
		if key.path == path {
			delete(c.preview, key)
		}
	}
}

// PurgePath removes path from all three caches. Called in the same state
// transition that removes a deleted file from the visible list, so a
// deleted session is never served from cache.
func (c *PrefetchCache) PurgePath(path string) {
	delete(c.meta, path)
	delete(c.summary, path)
	c.InvalidatePreview(path)
}

// MetaSnapshot returns a copy of the metadata cache, used by the fuzzy
// filter to search over ids and working directories.
func (c *PrefetchCache) MetaSnapshot() map[string]session.Meta {
	out := make(map[string]session.Meta, len(c.meta))
	for k, v := range c.meta {
		out[k] = v
	}
	return out
}
