package ui

// ActionKind identifies what the caller should do after the picker exits.
type ActionKind int

const (
	// ActionResume resumes the session log at Path.
	ActionResume ActionKind = iota
	// ActionStartNew starts a fresh session in WorkingDir.
	ActionStartNew
	// ActionWorkspaceCreate asks the caller to create a workspace session.
	ActionWorkspaceCreate
)

// Action is the picker's sole externally observable output, produced
// exactly once when the interactive session ends. A nil *Action means the
// user aborted (or nothing was left to show).
type Action struct {
	Kind       ActionKind
	Path       string // session log path, ActionResume only
	SessionID  string // resolved session id, ActionResume only
	WorkingDir string // target directory for ActionResume/ActionStartNew
	ExtraArgs  string // user-edited extra launch arguments
}
