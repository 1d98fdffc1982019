package domain

import (
	"encoding/json"
	"sort"

	"go.trai.ch/zerr"
)

// Serialized plans carry their own path table so that handles survive a
// process boundary: every handle is written as an index into "paths" and
// re-interned on decode.

type wirePlan struct {
	Paths []wirePath `json:"paths"`
	Jobs  []wireJob  `json:"jobs"`
}

type wirePath struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name,omitempty"`
	Contents *wireFileList `json:"contents,omitempty"`
}

type wireFileList struct {
	Kind          string         `json:"kind"`
	Paths         []int          `json:"paths,omitempty"`
	OutputFileMap []wireOFMEntry `json:"outputFileMap,omitempty"`
}

type wireOFMEntry struct {
	Input  *int   `json:"input,omitempty"`
	Type   string `json:"type"`
	Output int    `json:"output"`
}

type wireTypedPath struct {
	Path int    `json:"path"`
	Type string `json:"type"`
}

type wireArg struct {
	Kind string    `json:"kind"`
	Text string    `json:"text,omitempty"`
	Path *int      `json:"path,omitempty"`
	Args []wireArg `json:"args,omitempty"`
}

type wireCacheKey struct {
	Input wireTypedPath `json:"input"`
	Key   string        `json:"key"`
}

type wireJob struct {
	ModuleName               string            `json:"moduleName"`
	Kind                     string            `json:"kind"`
	Tool                     int               `json:"tool"`
	CommandLine              []wireArg         `json:"commandLine"`
	DisplayInputs            []wireTypedPath   `json:"displayInputs,omitempty"`
	Inputs                   []wireTypedPath   `json:"inputs,omitempty"`
	PrimaryInputs            []wireTypedPath   `json:"primaryInputs,omitempty"`
	Outputs                  []wireTypedPath   `json:"outputs,omitempty"`
	OutputCacheKeys          []wireCacheKey    `json:"outputCacheKeys,omitempty"`
	ExtraEnvironment         map[string]string `json:"extraEnvironment,omitempty"`
	RequiresInPlaceExecution bool              `json:"requiresInPlaceExecution,omitempty"`
	SupportsResponseFiles    bool              `json:"supportsResponseFiles,omitempty"`
}

type planEncoder struct {
	in    *Interner
	index map[PathHandle]int
	paths []wirePath
}

// EncodePlan serializes jobs and every path they reference.
func EncodePlan(in *Interner, jobs []*Job) ([]byte, error) {
	enc := &planEncoder{in: in, index: make(map[PathHandle]int)}
	plan := wirePlan{Jobs: make([]wireJob, 0, len(jobs))}
	for _, j := range jobs {
		plan.Jobs = append(plan.Jobs, enc.job(j))
	}
	plan.Paths = enc.paths
	if plan.Paths == nil {
		plan.Paths = []wirePath{}
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, ErrInvalidPlan.Error())
	}
	return data, nil
}

func (e *planEncoder) path(h PathHandle) int {
	if idx, ok := e.index[h]; ok {
		return idx
	}
	p := e.in.Lookup(h)
	wp := wirePath{Kind: p.Kind.String(), Name: p.Name}
	if p.Contents != nil {
		wp.Contents = e.fileList(p.Contents)
	}
	idx := len(e.paths)
	e.paths = append(e.paths, wp)
	e.index[h] = idx
	return idx
}

func (e *planEncoder) fileList(c *FileListContents) *wireFileList {
	switch c.Kind {
	case FileListPaths:
		wl := &wireFileList{Kind: "paths"}
		for _, h := range c.Paths {
			wl.Paths = append(wl.Paths, e.path(h))
		}
		return wl
	case FileListOutputFileMap:
		wl := &wireFileList{Kind: "outputFileMap"}
		c.OutputFileMap.Each(func(input PathHandle, t FileType, out PathHandle) {
			entry := wireOFMEntry{Type: t.Name(), Output: e.path(out)}
			if input != NoPath {
				idx := e.path(input)
				entry.Input = &idx
			}
			wl.OutputFileMap = append(wl.OutputFileMap, entry)
		})
		return wl
	default:
		panic("domain: unknown file list kind")
	}
}

func (e *planEncoder) typed(paths []TypedVirtualPath) []wireTypedPath {
	if len(paths) == 0 {
		return nil
	}
	out := make([]wireTypedPath, len(paths))
	for i, p := range paths {
		out[i] = wireTypedPath{Path: e.path(p.File), Type: p.Type.Name()}
	}
	return out
}

func (e *planEncoder) args(args []ArgTemplate) []wireArg {
	if len(args) == 0 {
		return nil
	}
	out := make([]wireArg, len(args))
	for i, a := range args {
		wa := wireArg{Kind: a.Kind.String(), Text: a.Text}
		if a.Path != NoPath {
			idx := e.path(a.Path)
			wa.Path = &idx
		}
		wa.Args = e.args(a.Args)
		out[i] = wa
	}
	return out
}

func (e *planEncoder) job(j *Job) wireJob {
	wj := wireJob{
		ModuleName:               j.ModuleName,
		Kind:                     j.Kind.String(),
		Tool:                     e.path(j.Tool),
		CommandLine:              e.args(j.CommandLine),
		DisplayInputs:            e.typed(j.DisplayInputs),
		Inputs:                   e.typed(j.Inputs),
		PrimaryInputs:            e.typed(j.PrimaryInputs),
		Outputs:                  e.typed(j.Outputs),
		RequiresInPlaceExecution: j.RequiresInPlaceExecution,
		SupportsResponseFiles:    j.SupportsResponseFiles,
	}
	if wj.CommandLine == nil {
		wj.CommandLine = []wireArg{}
	}
	if len(j.ExtraEnvironment) > 0 {
		wj.ExtraEnvironment = j.ExtraEnvironment
	}
	for _, k := range j.OutputCacheKeys {
		wj.OutputCacheKeys = append(wj.OutputCacheKeys, wireCacheKey{
			Input: wireTypedPath{Path: e.path(k.Input.File), Type: k.Input.Type.Name()},
			Key:   k.Key,
		})
	}
	return wj
}

type planDecoder struct {
	in      *Interner
	handles []PathHandle
}

// DecodePlan re-interns the path table of a serialized plan into in and
// returns the jobs with handles valid for in.
func DecodePlan(in *Interner, data []byte) ([]*Job, error) {
	var plan wirePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, newError(ErrInvalidPlan, err.Error())
	}

	dec := &planDecoder{in: in, handles: make([]PathHandle, 0, len(plan.Paths))}
	for i, wp := range plan.Paths {
		h, err := dec.internPath(i, wp)
		if err != nil {
			return nil, err
		}
		dec.handles = append(dec.handles, h)
	}

	jobs := make([]*Job, 0, len(plan.Jobs))
	for _, wj := range plan.Jobs {
		j, err := dec.job(wj)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func (d *planDecoder) handle(idx int) (PathHandle, error) {
	if idx < 0 || idx >= len(d.handles) {
		return NoPath, newError(ErrInvalidPlan, "path index out of range", "index", idx)
	}
	return d.handles[idx], nil
}

func (d *planDecoder) internPath(idx int, wp wirePath) (PathHandle, error) {
	kind, ok := ParsePathKind(wp.Kind)
	if !ok {
		return NoPath, newError(ErrInvalidPlan, "unknown path kind", "index", idx, "kind", wp.Kind)
	}
	p := VirtualPath{Kind: kind, Name: wp.Name}
	if kind == PathFileList {
		if wp.Contents == nil {
			return NoPath, newError(ErrInvalidPlan, "file list without contents", "index", idx)
		}
		contents, err := d.fileList(wp.Contents)
		if err != nil {
			return NoPath, err
		}
		p.Contents = contents
	}
	return d.in.Intern(p), nil
}

func (d *planDecoder) fileList(wl *wireFileList) (*FileListContents, error) {
	switch wl.Kind {
	case "paths":
		c := &FileListContents{Kind: FileListPaths}
		for _, idx := range wl.Paths {
			h, err := d.handle(idx)
			if err != nil {
				return nil, err
			}
			c.Paths = append(c.Paths, h)
		}
		return c, nil
	case "outputFileMap":
		m := NewOutputFileMap()
		for _, entry := range wl.OutputFileMap {
			input := NoPath
			if entry.Input != nil {
				h, err := d.handle(*entry.Input)
				if err != nil {
					return nil, err
				}
				input = h
			}
			t, ok := FileTypeForName(entry.Type)
			if !ok {
				return nil, newError(ErrInvalidPlan, "unknown file type", "type", entry.Type)
			}
			out, err := d.handle(entry.Output)
			if err != nil {
				return nil, err
			}
			m.Set(input, t, out)
		}
		return &FileListContents{Kind: FileListOutputFileMap, OutputFileMap: m}, nil
	default:
		return nil, newError(ErrInvalidPlan, "unknown file list kind", "kind", wl.Kind)
	}
}

func (d *planDecoder) typed(paths []wireTypedPath) ([]TypedVirtualPath, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	out := make([]TypedVirtualPath, len(paths))
	for i, wp := range paths {
		tp, err := d.typedPath(wp)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func (d *planDecoder) typedPath(wp wireTypedPath) (TypedVirtualPath, error) {
	h, err := d.handle(wp.Path)
	if err != nil {
		return TypedVirtualPath{}, err
	}
	t, ok := FileTypeForName(wp.Type)
	if !ok {
		return TypedVirtualPath{}, newError(ErrInvalidPlan, "unknown file type", "type", wp.Type)
	}
	return TypedVirtualPath{File: h, Type: t}, nil
}

func (d *planDecoder) args(args []wireArg) ([]ArgTemplate, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]ArgTemplate, len(args))
	for i, wa := range args {
		kind, ok := ParseArgKind(wa.Kind)
		if !ok {
			return nil, newError(ErrInvalidPlan, "unknown argument kind", "kind", wa.Kind)
		}
		a := ArgTemplate{Kind: kind, Text: wa.Text}
		if wa.Path != nil {
			h, err := d.handle(*wa.Path)
			if err != nil {
				return nil, err
			}
			a.Path = h
		}
		nested, err := d.args(wa.Args)
		if err != nil {
			return nil, err
		}
		a.Args = nested
		out[i] = a
	}
	return out, nil
}

func (d *planDecoder) job(wj wireJob) (*Job, error) {
	kind, ok := ParseJobKind(wj.Kind)
	if !ok {
		return nil, newError(ErrInvalidPlan, "unknown job kind", "kind", wj.Kind)
	}
	tool, err := d.handle(wj.Tool)
	if err != nil {
		return nil, err
	}
	j := &Job{
		ModuleName:               wj.ModuleName,
		Kind:                     kind,
		Tool:                     tool,
		RequiresInPlaceExecution: wj.RequiresInPlaceExecution,
		SupportsResponseFiles:    wj.SupportsResponseFiles,
	}
	if len(wj.ExtraEnvironment) > 0 {
		j.ExtraEnvironment = wj.ExtraEnvironment
	}
	if j.CommandLine, err = d.args(wj.CommandLine); err != nil {
		return nil, err
	}
	if j.DisplayInputs, err = d.typed(wj.DisplayInputs); err != nil {
		return nil, err
	}
	if j.Inputs, err = d.typed(wj.Inputs); err != nil {
		return nil, err
	}
	if j.PrimaryInputs, err = d.typed(wj.PrimaryInputs); err != nil {
		return nil, err
	}
	if j.Outputs, err = d.typed(wj.Outputs); err != nil {
		return nil, err
	}
	for _, wk := range wj.OutputCacheKeys {
		input, err := d.typedPath(wk.Input)
		if err != nil {
			return nil, err
		}
		j.OutputCacheKeys = append(j.OutputCacheKeys, OutputCacheKey{Input: input, Key: wk.Key})
	}
	return j, nil
}

// SortedEnvironment returns the keys of env in lexical order.
func SortedEnvironment(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
