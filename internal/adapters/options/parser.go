// Package options parses driver command lines against the driver option table.
package options

import (
	"sort"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
)

// Parser implements ports.OptionsParser over the built-in option table.
type Parser struct {
	exact    map[string]*domain.Option
	prefixed []*domain.Option
}

// NewParser creates a parser for the built-in option table.
func NewParser() *Parser {
	p := &Parser{exact: make(map[string]*domain.Option)}
	table := domain.Options()
	for i := range table {
		opt := &table[i]
		if opt.Kind == domain.OptionInput {
			continue
		}
		p.exact[opt.Spelling] = opt
		switch opt.Kind {
		case domain.OptionJoined, domain.OptionJoinedOrSeparate, domain.OptionCommaJoined:
			p.prefixed = append(p.prefixed, opt)
		default:
		}
	}
	// Longest spelling first so "-lto=" wins over "-l".
	sort.SliceStable(p.prefixed, func(i, j int) bool {
		return len(p.prefixed[i].Spelling) > len(p.prefixed[j].Spelling)
	})
	return p
}

// Parse implements ports.OptionsParser.
func (p *Parser) Parse(args []string) (ports.ParsedOptions, error) {
	out := &Parsed{}
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			out.add(domain.MustLookupOption("--"), args[i+1:])
			out.inputs = append(out.inputs, args[i+1:]...)
			break
		}

		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out.add(domain.MustLookupOption(domain.InputSpelling), []string{arg})
			out.inputs = append(out.inputs, arg)
			continue
		}

		opt, value, joined := p.match(arg)
		if opt == nil {
			return nil, domain.NewError(domain.ErrUnknownOption, arg, "option", arg)
		}
		canonical := canonicalOption(opt)

		switch opt.Kind {
		case domain.OptionFlag:
			out.add(canonical, nil)
		case domain.OptionSeparate:
			if i+1 >= len(args) {
				return nil, domain.NewError(domain.ErrMissingArgument, arg, "option", arg)
			}
			i++
			out.add(canonical, []string{args[i]})
		case domain.OptionJoinedOrSeparate:
			if joined {
				out.add(canonical, []string{value})
				continue
			}
			if i+1 >= len(args) {
				return nil, domain.NewError(domain.ErrMissingArgument, arg, "option", arg)
			}
			i++
			out.add(canonical, []string{args[i]})
		case domain.OptionJoined:
			out.add(canonical, []string{value})
		case domain.OptionCommaJoined:
			out.add(canonical, strings.Split(value, ","))
		case domain.OptionMultiArg:
			if i+opt.NumArgs >= len(args) {
				return nil, domain.NewError(domain.ErrMissingArgument, arg, "option", arg)
			}
			out.add(canonical, append([]string(nil), args[i+1:i+1+opt.NumArgs]...))
			i += opt.NumArgs
		case domain.OptionRemaining:
			out.add(canonical, append([]string(nil), args[i+1:]...))
			i = len(args)
		case domain.OptionInput:
			out.add(canonical, []string{arg})
		}
	}
	return out, nil
}

// match finds the option spelled by arg. joined reports whether the value was
// attached to the spelling.
func (p *Parser) match(arg string) (opt *domain.Option, value string, joined bool) {
	if o, ok := p.exact[arg]; ok {
		switch o.Kind {
		case domain.OptionJoined, domain.OptionCommaJoined:
			return o, "", true
		default:
			return o, "", false
		}
	}
	for _, o := range p.prefixed {
		if strings.HasPrefix(arg, o.Spelling) {
			return o, arg[len(o.Spelling):], true
		}
	}
	return nil, "", false
}

func canonicalOption(opt *domain.Option) *domain.Option {
	if opt.AliasOf == "" {
		return opt
	}
	return domain.MustLookupOption(opt.AliasOf)
}

// Parsed is the result of parsing a command line. Queries honor the order of
// the command line: the last occurrence of an option wins.
type Parsed struct {
	all    []domain.ParsedOption
	inputs []string
}

func (p *Parsed) add(opt *domain.Option, values []string) {
	p.all = append(p.all, domain.ParsedOption{Option: opt, Values: values, Index: len(p.all)})
}

func canonicalSpellings(spellings []string) map[string]bool {
	set := make(map[string]bool, len(spellings))
	for _, s := range spellings {
		set[domain.MustLookupOption(s).Spelling] = true
	}
	return set
}

// HasArgument implements ports.ParsedOptions.
func (p *Parsed) HasArgument(spellings ...string) bool {
	_, ok := p.LastArgument(spellings...)
	return ok
}

// LastArgument implements ports.ParsedOptions.
func (p *Parsed) LastArgument(spellings ...string) (domain.ParsedOption, bool) {
	set := canonicalSpellings(spellings)
	for i := len(p.all) - 1; i >= 0; i-- {
		if set[p.all[i].Spelling()] {
			return p.all[i], true
		}
	}
	return domain.ParsedOption{}, false
}

// Arguments implements ports.ParsedOptions.
func (p *Parsed) Arguments(spellings ...string) []domain.ParsedOption {
	set := canonicalSpellings(spellings)
	var out []domain.ParsedOption
	for _, opt := range p.all {
		if set[opt.Spelling()] {
			out = append(out, opt)
		}
	}
	return out
}

// LastInGroup implements ports.ParsedOptions.
func (p *Parsed) LastInGroup(group domain.OptionGroup) (domain.ParsedOption, bool) {
	for i := len(p.all) - 1; i >= 0; i-- {
		if p.all[i].Option.Group == group {
			return p.all[i], true
		}
	}
	return domain.ParsedOption{}, false
}

// HasFlag implements ports.ParsedOptions.
func (p *Parsed) HasFlag(positive, negative string, def bool) bool {
	opt, ok := p.LastArgument(positive, negative)
	if !ok {
		return def
	}
	return opt.Spelling() == domain.MustLookupOption(positive).Spelling
}

// Inputs implements ports.ParsedOptions.
func (p *Parsed) Inputs() []string {
	return p.inputs
}

// All implements ports.ParsedOptions.
func (p *Parsed) All() []domain.ParsedOption {
	return p.all
}
