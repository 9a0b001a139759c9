// Package ui renders end-of-command summaries for the terminal.
//
// Output is styled with lipgloss when it goes to a terminal and is plain
// text otherwise, so logs and CI output stay free of escape codes.
package ui
