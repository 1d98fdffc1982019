// Package detector inspects where progress output goes to pick how it is
// colored.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/swiftplan/internal/ui/output"
	"golang.org/x/term"
)

// Environment describes the surroundings progress output is written to.
type Environment struct {
	IsTerminal bool
	CI         bool
	NoColor    bool
}

// Detect inspects f and the process environment.
func Detect(f *os.File, getenv func(string) string) Environment {
	ci := getenv("CI")
	return Environment{
		IsTerminal: f != nil && term.IsTerminal(int(f.Fd())),
		CI:         ci == "true" || ci == "1",
		NoColor:    getenv("NO_COLOR") != "",
	}
}

// ColorProfile returns the profile for progress output. CI logs get plain
// ANSI colors, terminals their detected profile and anything else no color.
func (e Environment) ColorProfile() termenv.Profile {
	switch {
	case e.NoColor:
		return termenv.Ascii
	case e.CI:
		return termenv.ANSI
	case e.IsTerminal:
		return output.ColorProfile()
	default:
		return termenv.Ascii
	}
}
