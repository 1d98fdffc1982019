package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
)

func TestOutputFileMapFromEntries(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	m, err := domain.OutputFileMapFromEntries(map[string]map[string]string{
		"": {"swift-dependencies": "build/master.swiftdeps"},
		"main.swift": {
			"object":      "build/main.o",
			"swiftmodule": "build/main~partial.swiftmodule",
		},
	}, in, "/work")
	require.NoError(t, err)

	mainSwift := in.Intern(domain.Absolute("/work/main.swift"))
	obj, ok := m.Output(in, mainSwift, domain.FileTypeObject)
	require.True(t, ok)
	assert.Equal(t, domain.Absolute("/work/build/main.o"), in.Lookup(obj))

	doc, ok := m.Output(in, mainSwift, domain.FileTypeSwiftDocumentation)
	require.True(t, ok, "swiftdoc is derived from the swiftmodule entry")
	assert.Equal(t, domain.Absolute("/work/build/main~partial.swiftdoc"), in.Lookup(doc))

	deps, ok := m.SingleInputOutput(in, domain.FileTypeSwiftDeps)
	require.True(t, ok)
	assert.Equal(t, domain.Absolute("/work/build/master.swiftdeps"), in.Lookup(deps))

	_, ok = m.Output(in, mainSwift, domain.FileTypeLLVMBitcode)
	assert.False(t, ok)
}

func TestOutputFileMap_StableLookup(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	input := in.Intern(domain.Relative("a.swift"))
	m := domain.NewOutputFileMap()
	m.Set(input, domain.FileTypeSwiftModule, in.Intern(domain.Relative("a.swiftmodule")))

	first, _ := m.Output(in, input, domain.FileTypeSwiftSourceInfo)
	second, _ := m.Output(in, input, domain.FileTypeSwiftSourceInfo)
	assert.Equal(t, first, second)
}

func TestOutputFileMapFromEntries_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := domain.OutputFileMapFromEntries(map[string]map[string]string{
		"main.swift": {"bogus": "x"},
	}, domain.NewInterner(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOutputFileMap))
}

func TestOutputFileMap_EncodeRestricted(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	a := in.Intern(domain.Relative("a.swift"))
	b := in.Intern(domain.Relative("b.swift"))
	m := domain.NewOutputFileMap()
	m.Set(a, domain.FileTypeObject, in.Intern(domain.Relative("a.o")))
	m.Set(b, domain.FileTypeObject, in.Intern(domain.Relative("b.o")))

	data, err := m.Restricted([]domain.PathHandle{b}).Encode(func(h domain.PathHandle) string {
		return in.Lookup(h).Name
	})
	require.NoError(t, err)

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]map[string]string{"b.swift": {"object": "b.o"}}, decoded)
}
