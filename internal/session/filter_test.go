package session

import "testing"

func TestFilterEmptyQuery(t *testing.T) {
	refs := []FileRef{{Path: "/a", RelPath: "a.jsonl"}, {Path: "/b", RelPath: "b.jsonl"}}
	got := Filter(refs, nil, "  ")
	if len(got) != 2 {
		t.Fatalf("Empty query should return everything, got %d", len(got))
	}
}

func TestFilterMatchesIDAndPath(t *testing.T) {
	refs := []FileRef{
		{Path: "/logs/one.jsonl", RelPath: "proj-api/one.jsonl"},
		{Path: "/logs/two.jsonl", RelPath: "proj-web/two.jsonl"},
	}
	metas := map[string]Meta{
		"/logs/one.jsonl": {ID: "abc-123", WorkingDir: "/work/api"},
		"/logs/two.jsonl": {ID: "def-456", WorkingDir: "/work/web"},
	}

	got := Filter(refs, metas, "abc")
	if len(got) != 1 || got[0].Path != "/logs/one.jsonl" {
		t.Errorf("Expected id match for 'abc', got %v", got)
	}

	got = Filter(refs, metas, "web")
	if len(got) != 1 || got[0].Path != "/logs/two.jsonl" {
		t.Errorf("Expected path match for 'web', got %v", got)
	}
}

func TestFilterWithoutMetadata(t *testing.T) {
	// Metadata may not be cached yet; the relative path still matches.
	refs := []FileRef{{Path: "/logs/x.jsonl", RelPath: "backend/x.jsonl"}}
	got := Filter(refs, map[string]Meta{}, "backend")
	if len(got) != 1 {
		t.Errorf("Expected path-only match, got %v", got)
	}
}

func TestFilterNoMatch(t *testing.T) {
	refs := []FileRef{{Path: "/logs/x.jsonl", RelPath: "x.jsonl"}}
	if got := Filter(refs, nil, "zzzzzz"); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}
