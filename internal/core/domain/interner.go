package domain

import (
	"strconv"
	"strings"
	"sync"
)

// PathHandle is a compact reference to a VirtualPath interned in an Interner.
// Handles are only meaningful for the Interner that produced them.
type PathHandle uint32

// NoPath is the zero handle; it never refers to an interned path.
const NoPath PathHandle = 0

// IsValid reports whether h refers to an interned path.
func (h PathHandle) IsValid() bool {
	return h != NoPath
}

type pathKey struct {
	kind PathKind
	name string
}

// Interner is the session-scoped arena of virtual paths. Structurally equal
// paths always intern to the same handle. It is safe for concurrent use.
type Interner struct {
	mu       sync.RWMutex
	paths    []VirtualPath
	index    map[pathKey]PathHandle
	counters map[string]int
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{
		// Slot zero backs NoPath.
		paths:    []VirtualPath{{}},
		index:    make(map[pathKey]PathHandle),
		counters: make(map[string]int),
	}
}

// Intern returns the handle for p, adding it to the arena on first use.
func (in *Interner) Intern(p VirtualPath) PathHandle {
	key := pathKey{kind: p.Kind, name: p.Name}

	in.mu.RLock()
	h, ok := in.index[key]
	in.mu.RUnlock()
	if ok {
		return h
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if h, ok := in.index[key]; ok {
		return h
	}
	h = PathHandle(len(in.paths))
	in.paths = append(in.paths, p)
	in.index[key] = h
	return h
}

// Lookup returns the path behind h. Lookup of a handle this interner never
// produced is a programming error and panics.
func (in *Interner) Lookup(h PathHandle) VirtualPath {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if h == NoPath || int(h) >= len(in.paths) {
		panic("domain: lookup of unknown path handle " + strconv.FormatUint(uint64(h), 10))
	}
	return in.paths[h]
}

// Parse parses s and interns the result.
func (in *Interner) Parse(s string) (PathHandle, error) {
	p, err := ParseVirtualPath(s)
	if err != nil {
		return NoPath, err
	}
	return in.Intern(p), nil
}

// ParseOutput parses s as an output path and interns the result.
func (in *Interner) ParseOutput(s string) (PathHandle, error) {
	p, err := ParseOutputPath(s)
	if err != nil {
		return NoPath, err
	}
	return in.Intern(p), nil
}

// Len returns the number of interned paths.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.paths) - 1
}

// UniqueTemporary interns a new temporary path derived from name. Repeated
// calls with the same name yield distinct paths.
func (in *Interner) UniqueTemporary(name string) PathHandle {
	return in.Intern(Temporary(in.uniqueName(name)))
}

// UniqueFileList interns a new file list whose contents are known now and
// written to disk only when the plan is executed.
func (in *Interner) UniqueFileList(name string, contents FileListContents) PathHandle {
	c := contents
	return in.Intern(VirtualPath{Kind: PathFileList, Name: in.uniqueName(name), Contents: &c})
}

func (in *Interner) uniqueName(name string) string {
	in.mu.Lock()
	in.counters[name]++
	n := in.counters[name]
	in.mu.Unlock()

	stem, ext := name, ""
	if idx := strings.IndexByte(name, '.'); idx > 0 {
		stem, ext = name[:idx], name[idx:]
	}
	return stem + "-" + strconv.Itoa(n) + ext
}
