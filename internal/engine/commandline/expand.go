package commandline

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

const maxResponseFileDepth = 16

// ExpandResponseFiles replaces every "@file" argument with the shell-split
// contents of file. Response files may reference other response files.
func ExpandResponseFiles(fs ports.FileSystem, args []string) ([]string, error) {
	return expand(fs, args, 0)
}

func expand(fs ports.FileSystem, args []string, depth int) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") || len(arg) == 1 {
			out = append(out, arg)
			continue
		}
		path := arg[1:]
		if depth >= maxResponseFileDepth {
			return nil, domain.NewError(domain.ErrInvalidArgumentValue, "response files nested too deeply", "path", path)
		}
		data, err := fs.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrMissingRequiredFile.Error()), "path", path)
		}
		words, err := shellquote.Split(string(data))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidArgumentValue.Error()), "path", path)
		}
		nested, err := expand(fs, words, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}
