package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog asks for confirmation before a session log is deleted.
// Focus starts on "No": destructive actions are never the default.
type ConfirmDialog struct {
	visible    bool
	targetID   string
	targetPath string
	focusYes   bool
	width      int
	height     int
}

// NewConfirmDialog creates a hidden confirmation dialog.
func NewConfirmDialog() *ConfirmDialog {
	return &ConfirmDialog{}
}

// ShowDelete opens the dialog for the named session.
func (c *ConfirmDialog) ShowDelete(sessionID, path string) {
	c.visible = true
	c.targetID = sessionID
	c.targetPath = path
	c.focusYes = false
}

// Hide closes the dialog and resets state.
func (c *ConfirmDialog) Hide() {
	c.visible = false
	c.targetID = ""
	c.targetPath = ""
	c.focusYes = false
}

// IsVisible returns whether the dialog currently owns input focus.
func (c *ConfirmDialog) IsVisible() bool {
	return c.visible
}

// TargetPath returns the path being confirmed for deletion.
func (c *ConfirmDialog) TargetPath() string {
	return c.targetPath
}

// SetSize updates dialog dimensions for centering.
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// ConfirmResult is the dialog's answer for one key event.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota // dialog still open
	ConfirmYes
	ConfirmNo
)

// HandleKey processes one key while the dialog is open. Any key the
// dialog does not define is swallowed, never forwarded.
func (c *ConfirmDialog) HandleKey(msg tea.KeyMsg) ConfirmResult {
	switch msg.String() {
	case "y":
		return ConfirmYes
	case "n", "esc", "q":
		return ConfirmNo
	case "left", "right", "tab", "h", "l":
		c.focusYes = !c.focusYes
	case "enter":
		if c.focusYes {
			return ConfirmYes
		}
		return ConfirmNo
	}
	return ConfirmPending
}

// View renders the confirmation dialog centered in the screen.
func (c *ConfirmDialog) View() string {
	if !c.visible {
		return ""
	}

	title := DialogTitleStyle.Foreground(ColorRed).Render("Delete session?")
	warning := WarningStyle.Render(fmt.Sprintf("%q", c.targetID))
	details := DimStyle.Render(c.targetPath + "\nThe log file is removed from disk. This cannot be undone.")

	yesStyle, noStyle := DialogButtonStyle, DialogButtonActiveStyle
	if c.focusYes {
		yesStyle, noStyle = DialogButtonActiveStyle.Background(ColorRed), DialogButtonStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		yesStyle.Render("y Delete"),
		"  ",
		noStyle.Render("n Cancel"),
		"  ",
		DimStyle.Render("(Esc cancels)"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, title, warning, details, "", buttons)

	dialogWidth := 56
	if c.width > 0 && c.width < dialogWidth+10 {
		dialogWidth = c.width - 10
		if dialogWidth < 30 {
			dialogWidth = 30
		}
	}

	box := DialogBoxStyle.
		BorderForeground(ColorRed).
		Width(dialogWidth).
		Render(content)

	return centerInScreen(box, c.width, c.height)
}
