package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/twistedxcom/resume-deck/internal/session"
)

func sampleTurns() []session.DialogTurn {
	ts := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return []session.DialogTurn{
		{Role: session.RoleUser, Text: "hello\nworld", Timestamp: ts},
		{Role: session.RoleAssistant, Text: "a reasonably long answer that should wrap across lines", Timestamp: ts.Add(5 * time.Second)},
	}
}

func TestFormatTurnsStructure(t *testing.T) {
	out := FormatTurns(sampleTurns(), FormatOptions{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// turn 1: header + two body lines + blank, turn 2: header + body.
	require.Equal(t, 6, len(lines))
	require.Contains(t, lines[0], "User · 10:00:00")
	require.Contains(t, lines[1], "hello")
	require.Contains(t, lines[2], "world")
	require.Equal(t, "", lines[3])
	require.Contains(t, lines[4], "Assistant · 10:00:05")

	for i, line := range lines {
		if line == "" {
			continue
		}
		require.True(t, strings.Contains(line, "┃"), "line %d should carry the turn marker: %q", i, line)
	}
}

func TestFormatTurnsWrapsToWidth(t *testing.T) {
	const width = 20
	out := FormatTurns(sampleTurns(), FormatOptions{WrapWidth: width})
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, runewidth.StringWidth(line), width, "line overflows: %q", line)
	}
}

func TestFormatTurnsHardWrapsLongTokens(t *testing.T) {
	turns := []session.DialogTurn{
		{Role: session.RoleUser, Text: "https://example.com/" + strings.Repeat("x", 120)},
	}
	out := FormatTurns(turns, FormatOptions{WrapWidth: 30})
	for _, line := range strings.Split(out, "\n") {
		require.LessOrEqual(t, runewidth.StringWidth(line), 30, "unbroken token overflows: %q", line)
	}
}

func TestFormatTurnsHiddenRoles(t *testing.T) {
	turns := append(sampleTurns(), session.DialogTurn{Role: session.Role("tool"), Text: "noise"})
	out := FormatTurns(turns, FormatOptions{
		HiddenRoles: map[session.Role]bool{session.RoleAssistant: true, "tool": true},
	})
	require.Contains(t, out, "hello")
	require.NotContains(t, out, "answer")
	require.NotContains(t, out, "noise")
}

func TestFormatTurnsDeterministic(t *testing.T) {
	turns := sampleTurns()
	opts := FormatOptions{WrapWidth: 40}
	first := FormatTurns(turns, opts)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, FormatTurns(turns, opts))
	}
}

func TestFormatTurnsEmpty(t *testing.T) {
	require.Equal(t, "", FormatTurns(nil, FormatOptions{WrapWidth: 40}))
}

func TestFormatTurnsHeaderStylePerRole(t *testing.T) {
	require.Equal(t, PreviewUserStyle, headerStyleForRole(session.RoleUser))
	require.Equal(t, PreviewAgentStyle, headerStyleForRole(session.RoleAssistant))
	require.Equal(t, DimStyle, headerStyleForRole(session.Role("tool")))

	// Headers render through the style for every role.
	turns := []session.DialogTurn{
		{Role: session.RoleUser, Text: "a"},
		{Role: session.RoleAssistant, Text: "b"},
		{Role: session.Role("system"), Text: "c"},
	}
	out := FormatTurns(turns, FormatOptions{})
	require.Contains(t, out, "User")
	require.Contains(t, out, "Assistant")
	require.Contains(t, out, "system")
}

func TestFormatTurnsNoTimestamp(t *testing.T) {
	out := FormatTurns([]session.DialogTurn{{Role: session.RoleUser, Text: "hi"}}, FormatOptions{})
	require.Contains(t, out, "User")
	require.NotContains(t, out, "·")
}
