package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ArgsDialog is the single-line editor for extra launch arguments. Opened
// seeded with the current value; submit commits, cancel discards.
type ArgsDialog struct {
	visible bool
	input   textinput.Model
	width   int
	height  int
}

// NewArgsDialog creates a hidden args editor.
func NewArgsDialog() *ArgsDialog {
	ti := textinput.New()
	ti.Placeholder = "--model opus --verbose"
	ti.CharLimit = 500
	ti.Width = 48
	return &ArgsDialog{input: ti}
}

// Show opens the editor seeded with the current argument string.
func (d *ArgsDialog) Show(current string) {
	d.visible = true
	d.input.SetValue(current)
	d.input.CursorEnd()
	d.input.Focus()
}

// Hide closes the editor.
func (d *ArgsDialog) Hide() {
	d.visible = false
	d.input.Blur()
}

// IsVisible returns whether the dialog currently owns input focus.
func (d *ArgsDialog) IsVisible() bool {
	return d.visible
}

// SetSize updates dialog dimensions for centering.
func (d *ArgsDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// ArgsResult is the dialog's answer for one key event.
type ArgsResult int

const (
	ArgsPending ArgsResult = iota // still editing
	ArgsSubmit
	ArgsCancel
)

// HandleKey processes one key while the editor is open. The committed
// value is read with Value() after ArgsSubmit.
func (d *ArgsDialog) HandleKey(msg tea.KeyMsg) (ArgsResult, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return ArgsSubmit, nil
	case "esc":
		return ArgsCancel, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return ArgsPending, cmd
}

// Value returns the current text in the editor.
func (d *ArgsDialog) Value() string {
	return d.input.Value()
}

// View renders the editor centered in the screen.
func (d *ArgsDialog) View() string {
	if !d.visible {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		DialogTitleStyle.Render("Extra launch arguments"),
		d.input.View(),
		"",
		DimStyle.Render("Enter save | Esc cancel"),
	)

	dialogWidth := 56
	if d.width > 0 && d.width < dialogWidth+10 {
		dialogWidth = d.width - 10
		if dialogWidth < 30 {
			dialogWidth = 30
		}
	}

	box := DialogBoxStyle.Width(dialogWidth).Render(content)
	return centerInScreen(box, d.width, d.height)
}
