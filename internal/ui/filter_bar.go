package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FilterBar is the inline fuzzy-filter prompt shown above the session
// list. While it has focus it owns all printable keys; enter keeps the
// filter and returns focus to the list, esc clears it.
type FilterBar struct {
	input   textinput.Model
	focused bool
}

// NewFilterBar creates an unfocused filter bar.
func NewFilterBar() *FilterBar {
	ti := textinput.New()
	ti.Placeholder = "filter sessions..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40
	return &FilterBar{input: ti}
}

// Focus gives the bar input focus.
func (f *FilterBar) Focus() {
	f.focused = true
	f.input.Focus()
}

// Blur removes input focus, keeping the query.
func (f *FilterBar) Blur() {
	f.focused = false
	f.input.Blur()
}

// Focused reports whether the bar owns input.
func (f *FilterBar) Focused() bool {
	return f.focused
}

// Active reports whether a filter query is applied.
func (f *FilterBar) Active() bool {
	return f.input.Value() != ""
}

// Query returns the current filter text.
func (f *FilterBar) Query() string {
	return f.input.Value()
}

// Clear drops the query and focus.
func (f *FilterBar) Clear() {
	f.input.SetValue("")
	f.Blur()
}

// FilterEvent describes what a key did to the filter.
type FilterEvent int

const (
	FilterKept    FilterEvent = iota // key did not change the query
	FilterChanged                    // query text changed
	FilterAccept                     // keep query, return focus to list
	FilterCancel                     // clear query
)

// HandleKey processes one key while the bar is focused.
func (f *FilterBar) HandleKey(msg tea.KeyMsg) (FilterEvent, tea.Cmd) {
	switch msg.String() {
	case "enter":
		f.Blur()
		return FilterAccept, nil
	case "esc":
		f.Clear()
		return FilterCancel, nil
	}
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() == before {
		return FilterKept, cmd
	}
	return FilterChanged, cmd
}

// View renders the bar; empty string when inactive and unfocused.
func (f *FilterBar) View() string {
	if !f.focused && !f.Active() {
		return ""
	}
	return f.input.View()
}
