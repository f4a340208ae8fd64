package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dark "github.com/thiagokokada/dark-mode-go"
)

// Theme represents the current color scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var currentTheme Theme = ThemeDark

// Dark Theme - Tokyo Night
var darkColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Cyan, Green, Yellow, Red   lipgloss.Color
}{
	Bg:      lipgloss.Color("#1a1b26"),
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),
	Text:    lipgloss.Color("#c0caf5"),
	TextDim: lipgloss.Color("#787fa0"),
	Accent:  lipgloss.Color("#7aa2f7"),
	Cyan:    lipgloss.Color("#7dcfff"),
	Green:   lipgloss.Color("#9ece6a"),
	Yellow:  lipgloss.Color("#e0af68"),
	Red:     lipgloss.Color("#f7768e"),
}

// Light Theme - Tokyo Night Light variant
var lightColors = struct {
	Bg, Surface, Border, Text, TextDim lipgloss.Color
	Accent, Cyan, Green, Yellow, Red   lipgloss.Color
}{
	Bg:      lipgloss.Color("#d5d6db"),
	Surface: lipgloss.Color("#e9e9ec"),
	Border:  lipgloss.Color("#9699a3"),
	Text:    lipgloss.Color("#343b58"),
	TextDim: lipgloss.Color("#6a6d7c"),
	Accent:  lipgloss.Color("#34548a"),
	Cyan:    lipgloss.Color("#166775"),
	Green:   lipgloss.Color("#485e30"),
	Yellow:  lipgloss.Color("#8f5e15"),
	Red:     lipgloss.Color("#8c4351"),
}

// Active color variables (set by InitTheme)
var (
	ColorBg      lipgloss.Color
	ColorSurface lipgloss.Color
	ColorBorder  lipgloss.Color
	ColorText    lipgloss.Color
	ColorTextDim lipgloss.Color
	ColorAccent  lipgloss.Color
	ColorCyan    lipgloss.Color
	ColorGreen   lipgloss.Color
	ColorYellow  lipgloss.Color
	ColorRed     lipgloss.Color
)

// InitTheme sets the active color palette. "system" resolves to the OS
// appearance; detection failure falls back to dark.
// Must be called before any UI rendering.
func InitTheme(theme string) {
	if theme == "system" {
		theme = "dark"
		if isDark, err := dark.IsDarkMode(); err == nil && !isDark {
			theme = "light"
		}
	}

	if theme == "light" {
		currentTheme = ThemeLight
		ColorBg = lightColors.Bg
		ColorSurface = lightColors.Surface
		ColorBorder = lightColors.Border
		ColorText = lightColors.Text
		ColorTextDim = lightColors.TextDim
		ColorAccent = lightColors.Accent
		ColorCyan = lightColors.Cyan
		ColorGreen = lightColors.Green
		ColorYellow = lightColors.Yellow
		ColorRed = lightColors.Red
	} else {
		currentTheme = ThemeDark
		ColorBg = darkColors.Bg
		ColorSurface = darkColors.Surface
		ColorBorder = darkColors.Border
		ColorText = darkColors.Text
		ColorTextDim = darkColors.TextDim
		ColorAccent = darkColors.Accent
		ColorCyan = darkColors.Cyan
		ColorGreen = darkColors.Green
		ColorYellow = darkColors.Yellow
		ColorRed = darkColors.Red
	}
	initStyles()
}

// GetCurrentTheme returns the active theme
func GetCurrentTheme() Theme {
	return currentTheme
}

func init() {
	InitTheme("dark")
}

// Base Styles
var (
	TitleStyle     lipgloss.Style
	HighlightStyle lipgloss.Style
	DimStyle       lipgloss.Style
	ErrorStyle     lipgloss.Style
	WarningStyle   lipgloss.Style
)

// List Row Styles
var (
	RowStyle         lipgloss.Style
	RowSelectedStyle lipgloss.Style
	RowMetaStyle     lipgloss.Style
)

// Preview Pane Styles
var (
	PreviewPanelStyle lipgloss.Style
	PreviewTitleStyle lipgloss.Style
	PreviewUserStyle  lipgloss.Style
	PreviewAgentStyle lipgloss.Style
	PreviewBodyStyle  lipgloss.Style
)

// Dialog Styles
var (
	DialogBoxStyle          lipgloss.Style
	DialogTitleStyle        lipgloss.Style
	DialogButtonStyle       lipgloss.Style
	DialogButtonActiveStyle lipgloss.Style
)

// Footer / Menu Styles
var (
	MenuKeyStyle  lipgloss.Style
	MenuDescStyle lipgloss.Style
)

func initStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	DimStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorYellow)

	RowStyle = lipgloss.NewStyle().Foreground(ColorText)
	RowSelectedStyle = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorAccent).Bold(true)
	RowMetaStyle = lipgloss.NewStyle().Foreground(ColorTextDim)

	PreviewPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	PreviewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)
	PreviewUserStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	PreviewAgentStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	PreviewBodyStyle = lipgloss.NewStyle().Foreground(ColorText)

	DialogBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2)
	DialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).MarginBottom(1)
	DialogButtonStyle = lipgloss.NewStyle().
		Foreground(ColorText).
		Background(ColorSurface).
		Padding(0, 2)
	DialogButtonActiveStyle = lipgloss.NewStyle().
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 2).
		Bold(true)

	MenuKeyStyle = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	MenuDescStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
}

// centerInScreen pads content so the box appears centered in a
// width x height terminal. Returns the box unchanged when dimensions are
// unknown.
func centerInScreen(box string, width, height int) string {
	if width <= 0 || height <= 0 {
		return box
	}

	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)

	padLeft := (width - boxWidth) / 2
	if padLeft < 0 {
		padLeft = 0
	}
	padTop := (height - boxHeight) / 2
	if padTop < 0 {
		padTop = 0
	}

	var b strings.Builder
	for i := 0; i < padTop; i++ {
		b.WriteString("\n")
	}
	for _, line := range strings.Split(box, "\n") {
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
