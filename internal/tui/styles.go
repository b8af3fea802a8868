package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/evanschultz/taskboard/internal/theme"
)

// styles holds the lipgloss styles derived from one palette.
type styles struct {
	accentColor color.Color
	mutedColor  color.Color
	dimColor    color.Color

	title   lipgloss.Style
	muted   lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
	focused lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	done    lipgloss.Style
	badge   lipgloss.Style
	active  lipgloss.Style
	panel   lipgloss.Style
	status  lipgloss.Style
}

// newStyles builds styles for p.
func newStyles(p theme.Palette) styles {
	fg := lipgloss.Color(p.Foreground)
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.Muted)
	dim := lipgloss.Color(p.Dim)
	return styles{
		accentColor: accent,
		mutedColor:  muted,
		dimColor:    dim,
		title:       lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:       lipgloss.NewStyle().Foreground(muted),
		dim:         lipgloss.NewStyle().Foreground(dim),
		accent:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		focused:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		success:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
		danger:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Danger)),
		done:        lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		badge:       lipgloss.NewStyle().Foreground(fg).Background(lipgloss.Color(p.Badge)).Padding(0, 1),
		active:      lipgloss.NewStyle().Bold(true).Foreground(accent).Background(lipgloss.Color(p.Highlight)),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dim).
			Background(lipgloss.Color(p.Surface)).
			Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(muted),
	}
}
