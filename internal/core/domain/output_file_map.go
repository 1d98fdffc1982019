package domain

import (
	"encoding/json"
	"sort"

	"go.trai.ch/zerr"
)

// OutputFileMap assigns explicit output paths per input file and file type.
// The entry for NoPath holds outputs that belong to the whole compilation.
type OutputFileMap struct {
	entries map[PathHandle]map[FileType]PathHandle
}

// NewOutputFileMap creates an empty map.
func NewOutputFileMap() *OutputFileMap {
	return &OutputFileMap{entries: make(map[PathHandle]map[FileType]PathHandle)}
}

// Set records out as the output of type t for input.
func (m *OutputFileMap) Set(input PathHandle, t FileType, out PathHandle) {
	outputs, ok := m.entries[input]
	if !ok {
		outputs = make(map[FileType]PathHandle)
		m.entries[input] = outputs
	}
	outputs[t] = out
}

// Output returns the output of type t for input. Documentation and source info
// outputs missing from the map are derived from the module entry.
func (m *OutputFileMap) Output(in *Interner, input PathHandle, t FileType) (PathHandle, bool) {
	if m == nil {
		return NoPath, false
	}
	outputs := m.entries[input]
	if out, ok := outputs[t]; ok {
		return out, true
	}
	switch t {
	case FileTypeSwiftDocumentation, FileTypeSwiftSourceInfo:
		if module, ok := outputs[FileTypeSwiftModule]; ok {
			return in.Intern(in.Lookup(module).ReplacingExtension(t)), true
		}
	default:
	}
	return NoPath, false
}

// SingleInputOutput returns the whole-compilation output of type t.
func (m *OutputFileMap) SingleInputOutput(in *Interner, t FileType) (PathHandle, bool) {
	return m.Output(in, NoPath, t)
}

// Inputs returns the inputs that have entries, in handle order.
func (m *OutputFileMap) Inputs() []PathHandle {
	if m == nil {
		return nil
	}
	out := make([]PathHandle, 0, len(m.entries))
	for h := range m.entries {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of inputs with entries.
func (m *OutputFileMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Each calls fn for every entry, ordered by input handle then file type.
func (m *OutputFileMap) Each(fn func(input PathHandle, t FileType, out PathHandle)) {
	for _, input := range m.Inputs() {
		outputs := m.entries[input]
		types := make([]FileType, 0, len(outputs))
		for t := range outputs {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			fn(input, t, outputs[t])
		}
	}
}

// Restricted returns a copy holding only the given inputs.
func (m *OutputFileMap) Restricted(inputs []PathHandle) *OutputFileMap {
	out := NewOutputFileMap()
	if m == nil {
		return out
	}
	for _, input := range inputs {
		for t, p := range m.entries[input] {
			out.Set(input, t, p)
		}
	}
	return out
}

// OutputFileMapFromEntries builds a map from its decoded file form: input path
// to output type name to output path, with "" keying whole-compilation outputs.
// Relative paths are resolved against workingDir when it is set.
func OutputFileMapFromEntries(raw map[string]map[string]string, in *Interner, workingDir string) (*OutputFileMap, error) {
	m := NewOutputFileMap()
	for inputName, outputs := range raw {
		input := NoPath
		if inputName != "" {
			p, err := ParseVirtualPath(inputName)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, ErrInvalidOutputFileMap.Error()), "input", inputName)
			}
			input = in.Intern(p.Resolved(workingDir))
		}
		for typeName, outputName := range outputs {
			t, ok := FileTypeForName(typeName)
			if !ok {
				return nil, newError(ErrInvalidOutputFileMap, "unknown output type", "input", inputName, "type", typeName)
			}
			p, err := ParseOutputPath(outputName)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, ErrInvalidOutputFileMap.Error()), "input", inputName)
			}
			m.Set(input, t, in.Intern(p.Resolved(workingDir)))
		}
	}
	return m, nil
}

// Encode renders the map as JSON. render turns handles into the strings that
// should appear in the file.
func (m *OutputFileMap) Encode(render func(PathHandle) string) ([]byte, error) {
	raw := make(map[string]map[string]string, m.Len())
	if m != nil {
		for input, outputs := range m.entries {
			key := ""
			if input != NoPath {
				key = render(input)
			}
			entry := make(map[string]string, len(outputs))
			for t, out := range outputs {
				entry[t.Name()] = render(out)
			}
			raw[key] = entry
		}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, ErrInvalidOutputFileMap.Error())
	}
	return data, nil
}
