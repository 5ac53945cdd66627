// Package ui provides the styled output used by sysdash's one-shot CLI
// commands: result lines, key/value listings, tables and a spinner for
// commands that wait on the producer.
//
// Colors are ANSI codes so output follows the terminal theme. DisableColors
// switches lipgloss to plain text for --no-color and piped output; the
// dashboard renders through the same profile.
package ui
