package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders s as a section heading.
func Title(s string) string { return styles.title.Render(s) }

// Success renders s as a confirmation.
func Success(s string) string { return styles.ok.Render(s) }

// Failure renders s as an error line.
func Failure(s string) string { return styles.err.Render(s) }

// Warning renders s as a warning line.
func Warning(s string) string { return styles.warn.Render(s) }

// Help renders s as a dimmed hint.
func Help(s string) string { return styles.help.Render(s) }

// Active renders an active flag as a colored word.
func Active(active bool) string {
	if active {
		return Success("active")
	}
	return Warning("inactive")
}
