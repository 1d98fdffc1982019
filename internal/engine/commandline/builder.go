// Package commandline builds job command lines from literal flags and parsed
// driver options, and resolves them into concrete argument vectors.
package commandline

import (
	"fmt"
	"strings"

	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
)

// Builder accumulates the argument templates of one command line.
//
// Path values that cannot be parsed do not abort the build immediately; the
// first such error is returned by Build.
type Builder struct {
	in         *domain.Interner
	workingDir string
	args       []domain.ArgTemplate
	err        error
}

// NewBuilder returns an empty builder. Relative option paths are resolved
// against workingDir when it is set.
func NewBuilder(in *domain.Interner, workingDir string) *Builder {
	return &Builder{in: in, workingDir: workingDir}
}

// Flag appends literal arguments.
func (b *Builder) Flag(flags ...string) {
	for _, f := range flags {
		b.args = append(b.args, domain.Flag(f))
	}
}

// Path appends an argument resolving to p.
func (b *Builder) Path(p domain.PathHandle) {
	b.args = append(b.args, domain.PathArg(p))
}

// FlagPath appends flag followed by a path argument.
func (b *Builder) FlagPath(flag string, p domain.PathHandle) {
	b.args = append(b.args, domain.Flag(flag), domain.PathArg(p))
}

// Append appends prebuilt templates.
func (b *Builder) Append(args ...domain.ArgTemplate) {
	b.args = append(b.args, args...)
}

// AppendOption appends one parsed option following its passing convention.
func (b *Builder) AppendOption(opt domain.ParsedOption) {
	o := opt.Option
	switch o.Kind {
	case domain.OptionInput:
		for _, v := range opt.Values {
			b.appendValue(o, v)
		}
	case domain.OptionFlag:
		b.Flag(o.Spelling)
	case domain.OptionSeparate, domain.OptionJoinedOrSeparate:
		b.Flag(o.Spelling)
		for _, v := range opt.Values {
			b.appendValue(o, v)
		}
	case domain.OptionCommaJoined:
		if o.IsPath() {
			panic(fmt.Sprintf("commandline: comma-joined option %s cannot carry a path", o.Spelling))
		}
		b.Flag(o.Spelling + strings.Join(opt.Values, ","))
	case domain.OptionJoined:
		if o.IsPath() {
			h, ok := b.intern(opt.Value())
			if ok {
				b.args = append(b.args, domain.JoinedOptionAndPath(o.Spelling, h))
			}
			return
		}
		b.Flag(o.Spelling + opt.Value())
	case domain.OptionRemaining, domain.OptionMultiArg:
		b.Flag(o.Spelling)
		for _, v := range opt.Values {
			b.appendValue(o, v)
		}
	default:
		panic(fmt.Sprintf("commandline: option %s has unknown kind %d", o.Spelling, o.Kind))
	}
}

// AppendLast appends the last occurrence of any of the spellings, if present.
func (b *Builder) AppendLast(opts ports.ParsedOptions, spellings ...string) {
	if opt, ok := opts.LastArgument(spellings...); ok {
		b.AppendOption(opt)
	}
}

// AppendAll appends every occurrence of the spellings in command-line order.
func (b *Builder) AppendAll(opts ports.ParsedOptions, spellings ...string) {
	for _, opt := range opts.Arguments(spellings...) {
		b.AppendOption(opt)
	}
}

// AppendLastInGroup appends the last occurrence of any option in group.
func (b *Builder) AppendLastInGroup(opts ports.ParsedOptions, group domain.OptionGroup) {
	if opt, ok := opts.LastInGroup(group); ok {
		b.AppendOption(opt)
	}
}

// AppendAllValues appends only the values of every occurrence of the
// spellings, as with -Xfrontend and -Xlinker.
func (b *Builder) AppendAllValues(opts ports.ParsedOptions, spellings ...string) {
	for _, opt := range opts.Arguments(spellings...) {
		b.Flag(opt.Values...)
	}
}

// Contains reports whether the literal flag was already appended.
func (b *Builder) Contains(flag string) bool {
	for _, a := range b.args {
		if a.IsFlag(flag) {
			return true
		}
	}
	return false
}

// Len returns the number of templates appended so far.
func (b *Builder) Len() int {
	return len(b.args)
}

// Build returns the command line, or the first path error encountered.
func (b *Builder) Build() ([]domain.ArgTemplate, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.args, nil
}

func (b *Builder) appendValue(o *domain.Option, v string) {
	if !o.IsPath() {
		b.Flag(v)
		return
	}
	if h, ok := b.intern(v); ok {
		b.Path(h)
	}
}

func (b *Builder) intern(v string) (domain.PathHandle, bool) {
	p, err := domain.ParseVirtualPath(v)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return domain.NoPath, false
	}
	return b.in.Intern(p.Resolved(b.workingDir)), true
}
