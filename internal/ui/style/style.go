// Package style holds the colors and glyphs shared by the log handler, the
// progress renderer, and plan output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Mist   = lipgloss.Color("#F6F7FB")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Cross   = "✗"
	Warning = "!"
	Tilde   = "~"
	Dot     = "●"
)
