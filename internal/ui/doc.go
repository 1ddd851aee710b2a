// Package ui styles the command-line output of the tunebase CLI with lipgloss.
//
// A [Palette] holds the named styles (title, ok, err, warn, help). [Table] renders
// listings such as `tunebase users list` with a rounded border and a bold header row.
// Styling degrades to plain text when the output is not a terminal.
package ui
