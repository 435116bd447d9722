// Package ui renders A2UI surfaces to the terminal. It is the catalog
// dispatch layer: it walks a surface's component tree from the inferred
// root and draws each catalog type with lipgloss, collecting the actionable
// controls so the chat model can wire keyboard focus to them.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles carries the lipgloss styles for one theme.
type Styles struct {
	Surface       lipgloss.Style
	FrozenSurface lipgloss.Style
	Card          lipgloss.Style
	Text          lipgloss.Style
	Heading       lipgloss.Style
	Muted         lipgloss.Style
	Button        lipgloss.Style
	ButtonFocus   lipgloss.Style
	ButtonFrozen  lipgloss.Style
	Field         lipgloss.Style
	Divider       lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
}

// DefaultStyles returns the dark theme; light swaps the text tones.
func DefaultStyles(theme string) Styles {
	fg := lipgloss.Color("#f2f2f2")
	muted := lipgloss.Color("#7d8799")
	accent := lipgloss.Color("#8BC34A")
	border := lipgloss.Color("#2a3850")
	if theme == "light" {
		fg = lipgloss.Color("#101F38")
		muted = lipgloss.Color("#5a6472")
		border = lipgloss.Color("#dce0e5")
	}

	return Styles{
		Surface: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		FrozenSurface: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Text:    lipgloss.NewStyle().Foreground(fg),
		Heading: lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Button: lipgloss.NewStyle().
			Foreground(fg).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(border),
		ButtonFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#141d2b")).
			Background(accent).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent),
		ButtonFrozen: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(border),
		Field: lipgloss.NewStyle().
			Foreground(fg).
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Divider:     lipgloss.NewStyle().Foreground(border),
		TabActive:   lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),
		TabInactive: lipgloss.NewStyle().Foreground(muted),
	}
}
