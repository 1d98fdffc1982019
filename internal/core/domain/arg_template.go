package domain

// ArgKind distinguishes the variants of an ArgTemplate.
type ArgKind uint8

const (
	// ArgFlag is a literal argument.
	ArgFlag ArgKind = iota + 1
	// ArgPath is an argument that resolves to a path on disk.
	ArgPath
	// ArgResponseFilePath resolves to "@" followed by a path.
	ArgResponseFilePath
	// ArgJoinedOptionAndPath resolves to an option spelling immediately followed by a path.
	ArgJoinedOptionAndPath
	// ArgSquashedArgumentList resolves to an option spelling followed by a
	// shell-escaped, space-separated rendering of nested arguments.
	ArgSquashedArgumentList
)

var argKindNames = map[ArgKind]string{
	ArgFlag:                 "flag",
	ArgPath:                 "path",
	ArgResponseFilePath:     "responseFilePath",
	ArgJoinedOptionAndPath:  "joinedOptionAndPath",
	ArgSquashedArgumentList: "squashedArgumentList",
}

// String returns the stable name of the kind used in serialized plans.
func (k ArgKind) String() string {
	if name, ok := argKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseArgKind returns the kind with the given stable name.
func ParseArgKind(s string) (ArgKind, bool) {
	for k, name := range argKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// ArgTemplate is one element of a job command line before paths are resolved.
type ArgTemplate struct {
	Kind ArgKind
	// Text is the literal for ArgFlag and the option prefix for the joined and
	// squashed variants.
	Text string
	Path PathHandle
	Args []ArgTemplate
}

// Flag returns a literal argument.
func Flag(text string) ArgTemplate {
	return ArgTemplate{Kind: ArgFlag, Text: text}
}

// Flags returns one literal argument per string.
func Flags(texts ...string) []ArgTemplate {
	out := make([]ArgTemplate, len(texts))
	for i, t := range texts {
		out[i] = Flag(t)
	}
	return out
}

// PathArg returns an argument that resolves to p.
func PathArg(p PathHandle) ArgTemplate {
	return ArgTemplate{Kind: ArgPath, Path: p}
}

// ResponseFileArg returns an argument that resolves to "@" and p.
func ResponseFileArg(p PathHandle) ArgTemplate {
	return ArgTemplate{Kind: ArgResponseFilePath, Path: p}
}

// JoinedOptionAndPath returns an argument that resolves to option followed directly by p.
func JoinedOptionAndPath(option string, p PathHandle) ArgTemplate {
	return ArgTemplate{Kind: ArgJoinedOptionAndPath, Text: option, Path: p}
}

// SquashedArgumentList returns an argument that packs args into a single
// string after option.
func SquashedArgumentList(option string, args []ArgTemplate) ArgTemplate {
	return ArgTemplate{Kind: ArgSquashedArgumentList, Text: option, Args: args}
}

// Equal reports whether a and b are the same template.
func (a ArgTemplate) Equal(b ArgTemplate) bool {
	if a.Kind != b.Kind || a.Text != b.Text || a.Path != b.Path || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !a.Args[i].Equal(b.Args[i]) {
			return false
		}
	}
	return true
}

// IsFlag reports whether a is the literal text.
func (a ArgTemplate) IsFlag(text string) bool {
	return a.Kind == ArgFlag && a.Text == text
}
