package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for in-progress
	ColorBlue      = lipgloss.Color("75")  // Blue for answers

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleActive  = lipgloss.NewStyle().Foreground(ColorCyan)

	// Answer Box - for AI responses
	StyleAnswerBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)

	// Semantic Prefix Styles
	StylePrefixDone  = lipgloss.NewStyle().Foreground(ColorSuccess)          // Green for done
	StylePrefixWarn  = lipgloss.NewStyle().Foreground(ColorWarning)          // Orange for warnings
	StylePrefixError = lipgloss.NewStyle().Foreground(ColorError).Bold(true) // Red for errors
	StylePrefixInfo  = lipgloss.NewStyle().Foreground(ColorSecondary)        // Dim for hints
)

// Console glyphs.
const (
	GlyphSuccess = "✓"
	GlyphWarn    = "⚠️"
	GlyphError   = "❌"
	GlyphInfo    = "•"
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

func printLine(w io.Writer, glyph string, style lipgloss.Style, format string, a ...any) {
	fmt.Fprintf(w, "%s %s\n", Icon(glyph, style), fmt.Sprintf(format, a...))
}

// Success prints a ✓ line.
func Success(w io.Writer, format string, a ...any) {
	printLine(w, GlyphSuccess, StylePrefixDone, format, a...)
}

// Warn prints a ⚠️ line.
func Warn(w io.Writer, format string, a ...any) {
	printLine(w, GlyphWarn, StylePrefixWarn, format, a...)
}

// Fail prints a ❌ line.
func Fail(w io.Writer, format string, a ...any) {
	printLine(w, GlyphError, StylePrefixError, format, a...)
}

// Hint prints a dimmed bullet line, used for follow-up suggestions.
func Hint(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "  %s %s\n", Icon(GlyphInfo, StylePrefixInfo), StyleSubtle.Render(fmt.Sprintf(format, a...)))
}
