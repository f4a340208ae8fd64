package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitTheme(t *testing.T) {
	InitTheme("light")
	require.Equal(t, ThemeLight, GetCurrentTheme())
	light := ColorBg

	InitTheme("dark")
	require.Equal(t, ThemeDark, GetCurrentTheme())
	require.NotEqual(t, light, ColorBg)

	// Unknown names fall back to dark.
	InitTheme("solarized")
	require.Equal(t, ThemeDark, GetCurrentTheme())
}

func TestCenterInScreen(t *testing.T) {
	out := centerInScreen("ab", 10, 5)
	require.Contains(t, out, "    ab", "content centered horizontally")

	// Unknown dimensions leave the box alone.
	require.Equal(t, "ab", centerInScreen("ab", 0, 0))
}
