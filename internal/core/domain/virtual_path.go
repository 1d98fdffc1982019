package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// PathKind distinguishes the variants of a VirtualPath.
type PathKind uint8

const (
	// PathAbsolute is an absolute file system path.
	PathAbsolute PathKind = iota + 1
	// PathRelative is a path relative to the working directory.
	PathRelative
	// PathTemporary is a path inside the session temporary directory.
	PathTemporary
	// PathStandardInput refers to the process standard input.
	PathStandardInput
	// PathStandardOutput refers to the process standard output.
	PathStandardOutput
	// PathFileList is a temporary file whose contents are known at planning time.
	PathFileList
)

var pathKindNames = map[PathKind]string{
	PathAbsolute:       "absolute",
	PathRelative:       "relative",
	PathTemporary:      "temporary",
	PathStandardInput:  "standardInput",
	PathStandardOutput: "standardOutput",
	PathFileList:       "fileList",
}

// String returns the stable name of the kind used in serialized plans.
func (k PathKind) String() string {
	if name, ok := pathKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParsePathKind returns the kind with the given stable name.
func ParsePathKind(s string) (PathKind, bool) {
	for k, name := range pathKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// FileListKind describes what a file list materializes to.
type FileListKind uint8

const (
	// FileListPaths is one resolved path per line.
	FileListPaths FileListKind = iota + 1
	// FileListOutputFileMap is an output file map serialized as JSON.
	FileListOutputFileMap
)

// FileListContents is the planning-time content of a PathFileList path.
type FileListContents struct {
	Kind          FileListKind
	Paths         []PathHandle
	OutputFileMap *OutputFileMap
}

// VirtualPath is a location that may exist on disk, in the session temporary
// directory, or only as a process stream. Values are never mutated; path
// arithmetic returns new values.
type VirtualPath struct {
	Kind     PathKind
	Name     string
	Contents *FileListContents
}

// Absolute returns an absolute virtual path.
func Absolute(p string) VirtualPath {
	return VirtualPath{Kind: PathAbsolute, Name: filepath.Clean(p)}
}

// Relative returns a relative virtual path.
func Relative(p string) VirtualPath {
	return VirtualPath{Kind: PathRelative, Name: filepath.Clean(p)}
}

// Temporary returns a path inside the temporary directory.
func Temporary(p string) VirtualPath {
	return VirtualPath{Kind: PathTemporary, Name: filepath.Clean(p)}
}

// StandardInput returns the standard input stream path.
func StandardInput() VirtualPath {
	return VirtualPath{Kind: PathStandardInput}
}

// StandardOutput returns the standard output stream path.
func StandardOutput() VirtualPath {
	return VirtualPath{Kind: PathStandardOutput}
}

// ParseVirtualPath converts a command-line path string into a VirtualPath.
// "-" denotes standard input.
func ParseVirtualPath(s string) (VirtualPath, error) {
	if s == "" {
		return VirtualPath{}, newError(ErrInvalidPath, "path is empty", "path", s)
	}
	if strings.ContainsRune(s, 0) {
		return VirtualPath{}, newError(ErrInvalidPath, "path contains a NUL byte", "path", s)
	}
	if s == "-" {
		return StandardInput(), nil
	}
	if filepath.IsAbs(s) || strings.HasPrefix(s, "/") {
		return Absolute(s), nil
	}
	return Relative(s), nil
}

// ParseOutputPath is ParseVirtualPath for output positions, where "-" denotes
// standard output.
func ParseOutputPath(s string) (VirtualPath, error) {
	if s == "-" {
		return StandardOutput(), nil
	}
	return ParseVirtualPath(s)
}

// IsTemporary reports whether the path lives in the temporary directory.
func (p VirtualPath) IsTemporary() bool {
	return p.Kind == PathTemporary || p.Kind == PathFileList
}

// IsStream reports whether the path is standard input or standard output.
func (p VirtualPath) IsStream() bool {
	return p.Kind == PathStandardInput || p.Kind == PathStandardOutput
}

// Basename returns the last path component.
func (p VirtualPath) Basename() string {
	switch p.Kind {
	case PathStandardInput, PathStandardOutput:
		return "-"
	default:
		return filepath.Base(p.Name)
	}
}

// Extension returns the text after the last dot of the basename, without the dot.
func (p VirtualPath) Extension() string {
	base := p.Basename()
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return ""
	}
	return base[idx+1:]
}

// BasenameWithoutExt returns the basename with its last extension removed.
func (p VirtualPath) BasenameWithoutExt() string {
	base := p.Basename()
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 {
		return base
	}
	return base[:idx]
}

// ParentDirectory returns the directory containing the path.
func (p VirtualPath) ParentDirectory() VirtualPath {
	switch p.Kind {
	case PathStandardInput, PathStandardOutput:
		return Relative(".")
	case PathFileList:
		return Temporary(filepath.Dir(p.Name))
	default:
		return VirtualPath{Kind: p.Kind, Name: filepath.Dir(p.Name)}
	}
}

// Appending returns the path with component joined onto it.
func (p VirtualPath) Appending(components ...string) VirtualPath {
	switch p.Kind {
	case PathStandardInput, PathStandardOutput:
		return p
	case PathFileList:
		return Temporary(filepath.Join(append([]string{p.Name}, components...)...))
	default:
		return VirtualPath{Kind: p.Kind, Name: filepath.Join(append([]string{p.Name}, components...)...)}
	}
}

// ReplacingExtension swaps the last extension for the one of the given type.
// Paths without an extension get one appended.
func (p VirtualPath) ReplacingExtension(t FileType) VirtualPath {
	if p.IsStream() {
		return p
	}
	dir := filepath.Dir(p.Name)
	name := p.BasenameWithoutExt() + "." + t.Extension()
	if dir == "." && !strings.HasPrefix(p.Name, "./") {
		return VirtualPath{Kind: p.Kind, Name: name}
	}
	return VirtualPath{Kind: p.Kind, Name: filepath.Join(dir, name)}
}

// AppendingToBaseName returns the path with suffix added to its final component.
func (p VirtualPath) AppendingToBaseName(suffix string) VirtualPath {
	if p.IsStream() {
		return p
	}
	return VirtualPath{Kind: p.Kind, Name: p.Name + suffix}
}

// Resolved makes a relative path absolute against dir; other kinds are unchanged.
func (p VirtualPath) Resolved(dir string) VirtualPath {
	if p.Kind != PathRelative || dir == "" {
		return p
	}
	return Absolute(filepath.Join(dir, p.Name))
}

// String renders the path for logs and diagnostics.
func (p VirtualPath) String() string {
	switch p.Kind {
	case PathStandardInput, PathStandardOutput:
		return "-"
	case PathTemporary, PathFileList:
		return path.Join("<temporary>", filepath.ToSlash(p.Name))
	default:
		return p.Name
	}
}

// TypedVirtualPath pairs an interned path with the type of file it holds.
type TypedVirtualPath struct {
	File PathHandle
	Type FileType
}

// NewTypedPath builds a TypedVirtualPath.
func NewTypedPath(file PathHandle, t FileType) TypedVirtualPath {
	return TypedVirtualPath{File: file, Type: t}
}
