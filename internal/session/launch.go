package session

import "strings"

// LaunchSpec describes the agent process to start after the picker
// resolves. Args are passed through verbatim; the picker never launches
// anything itself.
type LaunchSpec struct {
	Command    string
	Args       []string
	WorkingDir string
}

// BuildResume constructs the launch spec that resumes an existing session.
func BuildResume(tool, sessionID, workingDir, extraArgs string) LaunchSpec {
	args := []string{"-r", sessionID}
	args = append(args, SplitArgs(extraArgs)...)
	return LaunchSpec{Command: tool, Args: args, WorkingDir: workingDir}
}

// BuildNew constructs the launch spec that starts a fresh session in dir.
func BuildNew(tool, dir, extraArgs string) LaunchSpec {
	return LaunchSpec{Command: tool, Args: SplitArgs(extraArgs), WorkingDir: dir}
}

// SplitArgs splits a user-entered extra-arguments string into argv parts.
// Single and double quotes group words; there is no escape processing
// beyond that.
func SplitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, current.String())
	}
	return args
}
