package ports

import "go.trai.ch/swiftplan/internal/core/domain"

// ParsedOptions is the query surface over a parsed driver command line.
// When an option occurs several times the last occurrence wins.
//
//go:generate mockgen -source=options.go -destination=mocks/mock_options.go -package=mocks
type ParsedOptions interface {
	// HasArgument reports whether any of the spellings occurred.
	HasArgument(spellings ...string) bool

	// LastArgument returns the last occurrence of any of the spellings.
	LastArgument(spellings ...string) (domain.ParsedOption, bool)

	// Arguments returns every occurrence of the spellings in command-line order.
	Arguments(spellings ...string) []domain.ParsedOption

	// LastInGroup returns the last occurrence of any option in group.
	LastInGroup(group domain.OptionGroup) (domain.ParsedOption, bool)

	// HasFlag resolves a positive/negative flag pair, falling back to def.
	HasFlag(positive, negative string, def bool) bool

	// Inputs returns the positional input paths in command-line order.
	Inputs() []string

	// All returns every parsed option in command-line order.
	All() []domain.ParsedOption
}

// OptionsParser turns raw driver arguments into ParsedOptions.
type OptionsParser interface {
	// Parse parses args, which exclude the program name.
	Parse(args []string) (ParsedOptions, error)
}
