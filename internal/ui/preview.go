package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/twistedxcom/resume-deck/internal/session"
)

// turnMarker prefixes every preview line so a turn's header and body stay
// visually grouped. Two display columns wide.
const turnMarker = "┃ "

const turnMarkerWidth = 2

// FormatOptions controls preview formatting.
type FormatOptions struct {
	// HiddenRoles are dialog roles excluded from the preview entirely.
	HiddenRoles map[session.Role]bool

	// WrapWidth is the maximum display width of any output line, marker
	// included. Zero means no wrapping.
	WrapWidth int
}

// FormatTurns renders dialog turns as marker-prefixed display lines: a
// role+time header per turn, the turn text split on embedded newlines and
// hard-wrapped to WrapWidth display columns, and a blank separator line
// after each turn.
//
// Pure: no I/O, no shared state. Identical inputs produce identical
// output, which the preview cache relies on.
func FormatTurns(turns []session.DialogTurn, opts FormatOptions) string {
	var b strings.Builder

	bodyWidth := 0
	if opts.WrapWidth > 0 {
		bodyWidth = opts.WrapWidth - turnMarkerWidth
		if bodyWidth < 1 {
			bodyWidth = 1
		}
	}

	for _, turn := range turns {
		if opts.HiddenRoles[turn.Role] {
			continue
		}

		marker := markerForRole(turn.Role)

		header := roleLabel(turn.Role)
		if !turn.Timestamp.IsZero() {
			header += " · " + turn.Timestamp.Format("15:04:05")
		}
		if bodyWidth > 0 && runewidth.StringWidth(header) > bodyWidth {
			header = runewidth.Truncate(header, bodyWidth, "…")
		}
		b.WriteString(marker)
		b.WriteString(headerStyleForRole(turn.Role).Render(header))
		b.WriteString("\n")

		for _, para := range strings.Split(turn.Text, "\n") {
			if bodyWidth == 0 {
				b.WriteString(marker)
				b.WriteString(para)
				b.WriteString("\n")
				continue
			}
			// Word-wrap first, then hard-wrap anything that still
			// overflows (long tokens, URLs).
			wrapped := wrap.String(wordwrap.String(para, bodyWidth), bodyWidth)
			for _, line := range strings.Split(wrapped, "\n") {
				b.WriteString(marker)
				b.WriteString(line)
				b.WriteString("\n")
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

func markerForRole(role session.Role) string {
	switch role {
	case session.RoleUser:
		return PreviewUserStyle.Render(turnMarker)
	case session.RoleAssistant:
		return PreviewAgentStyle.Render(turnMarker)
	default:
		return DimStyle.Render(turnMarker)
	}
}

func headerStyleForRole(role session.Role) lipgloss.Style {
	switch role {
	case session.RoleUser:
		return PreviewUserStyle
	case session.RoleAssistant:
		return PreviewAgentStyle
	default:
		return DimStyle
	}
}

func roleLabel(role session.Role) string {
	switch role {
	case session.RoleUser:
		return "User"
	case session.RoleAssistant:
		return "Assistant"
	default:
		return string(role)
	}
}
