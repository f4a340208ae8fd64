package session

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// filterSource adapts session refs to the fuzzy matcher. The haystack for
// each ref is its id (when known), working directory and relative path.
type filterSource struct {
	refs  []FileRef
	metas map[string]Meta // keyed by path; entries may be missing
}

func (s filterSource) String(i int) string {
	ref := s.refs[i]
	parts := []string{ref.RelPath}
	if meta, ok := s.metas[ref.Path]; ok {
		parts = append(parts, meta.ID, meta.WorkingDir)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func (s filterSource) Len() int { return len(s.refs) }

// Filter returns the refs fuzzy-matching query, best match first. An empty
// query returns refs unchanged.
func Filter(refs []FileRef, metas map[string]Meta, query string) []FileRef {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return refs
	}

	matches := fuzzy.FindFrom(query, filterSource{refs: refs, metas: metas})
	out := make([]FileRef, 0, len(matches))
	for _, m := range matches {
		out = append(out, refs[m.Index])
	}
	return out
}
