package commandline

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/kballard/go-shellquote"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports"
	"go.trai.ch/zerr"
)

// Conservative command-line length limits. Exceeding them moves the arguments
// of tools that accept response files into one.
const (
	unixCommandLineLimit    = 128 * 1024
	windowsCommandLineLimit = 32 * 1024
)

// Resolver turns argument templates into concrete strings. Temporary paths are
// placed under the temporary directory and file lists are written there the
// first time they are resolved.
type Resolver struct {
	in      *domain.Interner
	fs      ports.FileSystem
	tempDir string
	policy  domain.ResponseFilePolicy
	limit   int

	mu      sync.Mutex
	written map[domain.PathHandle]bool
}

// NewResolver creates a resolver writing temporary files below tempDir.
func NewResolver(in *domain.Interner, fs ports.FileSystem, tempDir string, policy domain.ResponseFilePolicy) *Resolver {
	limit := unixCommandLineLimit
	if runtime.GOOS == "windows" {
		limit = windowsCommandLineLimit
	}
	return &Resolver{
		in:      in,
		fs:      fs,
		tempDir: tempDir,
		policy:  policy,
		limit:   limit,
		written: make(map[domain.PathHandle]bool),
	}
}

// TemporaryDirectory returns the directory temporary paths resolve into.
func (r *Resolver) TemporaryDirectory() string {
	return r.tempDir
}

// ResolvePath returns the concrete form of h, materializing file lists.
func (r *Resolver) ResolvePath(h domain.PathHandle) (string, error) {
	p := r.in.Lookup(h)
	switch p.Kind {
	case domain.PathStandardInput, domain.PathStandardOutput:
		return "-", nil
	case domain.PathTemporary:
		return filepath.Join(r.tempDir, p.Name), nil
	case domain.PathFileList:
		resolved := filepath.Join(r.tempDir, p.Name)
		if err := r.writeFileList(h, p, resolved); err != nil {
			return "", err
		}
		return resolved, nil
	case domain.PathAbsolute, domain.PathRelative:
		return p.Name, nil
	default:
		return p.Name, nil
	}
}

// RenderPath returns the concrete form of h without writing anything.
func (r *Resolver) RenderPath(h domain.PathHandle) string {
	p := r.in.Lookup(h)
	switch p.Kind {
	case domain.PathStandardInput, domain.PathStandardOutput:
		return "-"
	case domain.PathTemporary, domain.PathFileList:
		return filepath.Join(r.tempDir, p.Name)
	case domain.PathAbsolute, domain.PathRelative:
		return p.Name
	default:
		return p.Name
	}
}

// ResolveArg returns the string form of a single template.
func (r *Resolver) ResolveArg(a domain.ArgTemplate) (string, error) {
	switch a.Kind {
	case domain.ArgFlag:
		return a.Text, nil
	case domain.ArgPath:
		return r.ResolvePath(a.Path)
	case domain.ArgResponseFilePath:
		p, err := r.ResolvePath(a.Path)
		if err != nil {
			return "", err
		}
		return "@" + p, nil
	case domain.ArgJoinedOptionAndPath:
		p, err := r.ResolvePath(a.Path)
		if err != nil {
			return "", err
		}
		return a.Text + p, nil
	case domain.ArgSquashedArgumentList:
		nested, err := r.Resolve(a.Args)
		if err != nil {
			return "", err
		}
		return a.Text + shellquote.Join(nested...), nil
	default:
		return "", domain.NewError(domain.ErrInvalidPlan, "unknown argument kind", "arg_kind", int(a.Kind))
	}
}

// Resolve returns the string form of every template.
func (r *Resolver) Resolve(args []domain.ArgTemplate) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		s, err := r.ResolveArg(a)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ResolveJob produces the invocation for job, moving its arguments into a
// response file when the policy and the tool allow it. env is added to the
// job's own extra environment.
func (r *Resolver) ResolveJob(job *domain.Job, env map[string]string) (*domain.Invocation, error) {
	tool, err := r.ResolvePath(job.Tool)
	if err != nil {
		return nil, err
	}
	args, err := r.Resolve(job.CommandLine)
	if err != nil {
		return nil, err
	}

	if r.shouldUseResponseFile(job, tool, args) {
		args, err = r.writeResponseFile(args)
		if err != nil {
			return nil, err
		}
	}

	merged := make(map[string]string, len(env)+len(job.ExtraEnvironment))
	for k, v := range env {
		merged[k] = v
	}
	for k, v := range job.ExtraEnvironment {
		merged[k] = v
	}
	pairs := make([]string, 0, len(merged))
	for _, k := range domain.SortedEnvironment(merged) {
		pairs = append(pairs, k+"="+merged[k])
	}

	return &domain.Invocation{Executable: tool, Args: args, Env: pairs}, nil
}

// Render returns the job as a single shell-escaped line, as printed by
// -driver-print-jobs. Nothing is written to disk.
func (r *Resolver) Render(job *domain.Job) string {
	words := make([]string, 0, len(job.CommandLine)+1)
	words = append(words, r.RenderPath(job.Tool))
	for _, a := range job.CommandLine {
		words = append(words, r.renderArg(a))
	}
	return shellquote.Join(words...)
}

func (r *Resolver) renderArg(a domain.ArgTemplate) string {
	switch a.Kind {
	case domain.ArgPath:
		return r.RenderPath(a.Path)
	case domain.ArgResponseFilePath:
		return "@" + r.RenderPath(a.Path)
	case domain.ArgJoinedOptionAndPath:
		return a.Text + r.RenderPath(a.Path)
	case domain.ArgSquashedArgumentList:
		nested := make([]string, len(a.Args))
		for i, n := range a.Args {
			nested[i] = r.renderArg(n)
		}
		return a.Text + shellquote.Join(nested...)
	case domain.ArgFlag:
		return a.Text
	default:
		return a.Text
	}
}

func (r *Resolver) shouldUseResponseFile(job *domain.Job, tool string, args []string) bool {
	if !job.SupportsResponseFiles {
		return false
	}
	switch r.policy {
	case domain.ResponseFilesNever:
		return false
	case domain.ResponseFilesAlways:
		return true
	case domain.ResponseFilesHeuristic:
		length := len(tool)
		for _, a := range args {
			length += len(a) + 1
		}
		return length > r.limit
	default:
		return false
	}
}

// writeResponseFile stores args in a response file and returns the argument
// vector referencing it. A leading -frontend or -modulewrap stays outside the
// file since the tool dispatches on it.
func (r *Resolver) writeResponseFile(args []string) ([]string, error) {
	var prefix []string
	if len(args) > 0 && (args[0] == "-frontend" || args[0] == "-modulewrap") {
		prefix, args = args[:1], args[1:]
	}

	lines := make([]string, len(args))
	for i, a := range args {
		lines[i] = shellquote.Join(a)
	}
	content := strings.Join(lines, "\n") + "\n"
	name := "arguments-" + strconv.FormatUint(xxhash.Sum64String(content), 16) + ".resp"
	resolved := filepath.Join(r.tempDir, name)

	if err := r.fs.WriteFile(resolved, []byte(content)); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileListWriteFailed.Error()), "path", resolved)
	}

	out := make([]string, 0, len(prefix)+1)
	out = append(out, prefix...)
	return append(out, "@"+resolved), nil
}

func (r *Resolver) writeFileList(h domain.PathHandle, p domain.VirtualPath, resolved string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.written[h] {
		return nil
	}

	var data []byte
	if p.Contents != nil {
		switch p.Contents.Kind {
		case domain.FileListPaths:
			var sb strings.Builder
			for _, entry := range p.Contents.Paths {
				sb.WriteString(r.RenderPath(entry))
				sb.WriteByte('\n')
			}
			data = []byte(sb.String())
		case domain.FileListOutputFileMap:
			encoded, err := p.Contents.OutputFileMap.Encode(r.RenderPath)
			if err != nil {
				return err
			}
			data = encoded
		}
	}

	if err := r.fs.WriteFile(resolved, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileListWriteFailed.Error()), "path", resolved)
	}
	r.written[h] = true
	return nil
}
