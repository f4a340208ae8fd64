package session

import "time"

// Role identifies who produced a dialog turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// FileRef points at one on-disk session log. Produced by discovery and
// never mutated afterwards; Path is the identity.
type FileRef struct {
	Path    string
	RelPath string // relative to the sessions root, used for display fallback
	ModTime time.Time
}

// Meta is the quick metadata extracted from the head of a session log.
type Meta struct {
	ID         string
	WorkingDir string
	StartedAt  time.Time

	// IDFromPath is true when the log carried no session id and ID was
	// filled from the file's relative path. The UI renders these
	// distinguishably so a path is never mistaken for a real session id.
	IDFromPath bool
}

// DialogTurn is one user or assistant message from a full parse.
// Non-dialog records (tool results, snapshots, summaries) are discarded.
type DialogTurn struct {
	Role      Role
	Text      string
	Timestamp time.Time // zero if the record carried none
}

// Summary is the compact per-session digest shown in list rows.
type Summary struct {
	TurnCount int
	LastRole  Role // empty if the session has no dialog turns
}

// Summarize derives a Summary from a full dialog-turn list.
func Summarize(turns []DialogTurn) Summary {
	s := Summary{TurnCount: len(turns)}
	if len(turns) > 0 {
		s.LastRole = turns[len(turns)-1].Role
	}
	return s
}
