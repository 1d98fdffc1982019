package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
)

func samplePlan(in *domain.Interner) []*domain.Job {
	frontend := in.Intern(domain.Absolute("/usr/bin/swift-frontend"))
	clang := in.Intern(domain.Absolute("/usr/bin/clang"))
	src := in.Intern(domain.Relative("main.swift"))
	obj := in.UniqueTemporary("main.o")
	image := in.Intern(domain.Relative("main"))

	ofm := domain.NewOutputFileMap()
	ofm.Set(src, domain.FileTypeObject, obj)
	ofmList := in.UniqueFileList("supplementaryOutputs", domain.FileListContents{
		Kind: domain.FileListOutputFileMap, OutputFileMap: ofm,
	})
	linkList := in.UniqueFileList("inputs.LinkFileList", domain.FileListContents{
		Kind: domain.FileListPaths, Paths: []domain.PathHandle{obj},
	})

	srcInput := domain.NewTypedPath(src, domain.FileTypeSwift)
	objOutput := domain.NewTypedPath(obj, domain.FileTypeObject)

	return []*domain.Job{
		{
			ModuleName: "main",
			Kind:       domain.JobCompile,
			Tool:       frontend,
			CommandLine: []domain.ArgTemplate{
				domain.Flag("-frontend"),
				domain.Flag("-c"),
				domain.Flag("-primary-file"),
				domain.PathArg(src),
				domain.Flag("-supplementary-output-file-map"),
				domain.PathArg(ofmList),
				domain.Flag("-o"),
				domain.PathArg(obj),
			},
			DisplayInputs:         []domain.TypedVirtualPath{srcInput},
			Inputs:                []domain.TypedVirtualPath{srcInput},
			PrimaryInputs:         []domain.TypedVirtualPath{srcInput},
			Outputs:               []domain.TypedVirtualPath{objOutput},
			OutputCacheKeys:       []domain.OutputCacheKey{{Input: srcInput, Key: "abc123"}},
			SupportsResponseFiles: true,
		},
		{
			ModuleName: "main",
			Kind:       domain.JobLink,
			Tool:       clang,
			CommandLine: []domain.ArgTemplate{
				domain.Flag("-filelist"),
				domain.PathArg(linkList),
				domain.JoinedOptionAndPath("-Wl,-add_ast_path,", obj),
				domain.SquashedArgumentList("--repl=", domain.Flags("-module-name", "main")),
				domain.ResponseFileArg(linkList),
				domain.Flag("-o"),
				domain.PathArg(image),
			},
			Inputs:           []domain.TypedVirtualPath{objOutput},
			Outputs:          []domain.TypedVirtualPath{domain.NewTypedPath(image, domain.FileTypeImage)},
			ExtraEnvironment: map[string]string{"DYLD_LIBRARY_PATH": "/usr/lib/swift"},
		},
	}
}

func TestPlanCodec_RoundTripSameInterner(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	jobs := samplePlan(in)

	data, err := domain.EncodePlan(in, jobs)
	require.NoError(t, err)

	decoded, err := domain.DecodePlan(in, data)
	require.NoError(t, err)
	assert.Equal(t, jobs, decoded)
}

func TestPlanCodec_RoundTripFreshInterner(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	jobs := samplePlan(in)
	data, err := domain.EncodePlan(in, jobs)
	require.NoError(t, err)

	other := domain.NewInterner()
	decoded, err := domain.DecodePlan(other, data)
	require.NoError(t, err)
	require.Len(t, decoded, len(jobs))

	reencoded, err := domain.EncodePlan(other, decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(reencoded))

	list := other.Lookup(decoded[1].CommandLine[1].Path)
	require.NotNil(t, list.Contents)
	assert.Equal(t, domain.FileListPaths, list.Contents.Kind)
	assert.Equal(t, "main-1.o", other.Lookup(list.Contents.Paths[0]).Name)
}

func TestPlanCodec_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "{"},
		{name: "bad path kind", data: `{"paths":[{"kind":"weird"}],"jobs":[]}`},
		{name: "bad job kind", data: `{"paths":[{"kind":"absolute","name":"/t"}],"jobs":[{"kind":"nope","tool":0,"commandLine":[]}]}`},
		{name: "index out of range", data: `{"paths":[],"jobs":[{"kind":"link","tool":3,"commandLine":[]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := domain.DecodePlan(domain.NewInterner(), []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidPlan), "got %v", err)
		})
	}
}
