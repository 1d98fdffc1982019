package commandline_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/domain"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.uber.org/mock/gomock"
)

const tempDir = "/tmp/plan"

func TestResolver_ResolvePath(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesHeuristic)

	tests := []struct {
		name string
		path domain.VirtualPath
		want string
	}{
		{name: "absolute", path: domain.Absolute("/src/a.swift"), want: "/src/a.swift"},
		{name: "relative", path: domain.Relative("a.swift"), want: "a.swift"},
		{name: "temporary", path: domain.Temporary("a-1.o"), want: filepath.Join(tempDir, "a-1.o")},
		{name: "stdin", path: domain.StandardInput(), want: "-"},
		{name: "stdout", path: domain.StandardOutput(), want: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.ResolvePath(in.Intern(tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_FileListIsWrittenOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	in := domain.NewInterner()

	a := in.Intern(domain.Absolute("/src/a.o"))
	b := in.Intern(domain.Temporary("b-1.o"))
	list := in.UniqueFileList("inputs.LinkFileList", domain.FileListContents{
		Kind:  domain.FileListPaths,
		Paths: []domain.PathHandle{a, b},
	})
	want := filepath.Join(tempDir, "inputs-1.LinkFileList")

	fs.EXPECT().
		WriteFile(want, []byte("/src/a.o\n"+filepath.Join(tempDir, "b-1.o")+"\n")).
		Return(nil).
		Times(1)

	r := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesHeuristic)
	for range 2 {
		got, err := r.ResolveArg(domain.JoinedOptionAndPath("-filelist=", list))
		require.NoError(t, err)
		assert.Equal(t, "-filelist="+want, got)
	}
}

func TestResolver_OutputFileMapList(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	in := domain.NewInterner()

	src := in.Intern(domain.Absolute("/src/a.swift"))
	obj := in.Intern(domain.Temporary("a-1.o"))
	ofm := domain.NewOutputFileMap()
	ofm.Set(src, domain.FileTypeObject, obj)
	list := in.UniqueFileList("supplementaryOutputs", domain.FileListContents{
		Kind:          domain.FileListOutputFileMap,
		OutputFileMap: ofm,
	})

	var written []byte
	fs.EXPECT().WriteFile(filepath.Join(tempDir, "supplementaryOutputs-1"), gomock.Any()).
		DoAndReturn(func(_ string, data []byte) error {
			written = data
			return nil
		})

	r := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesHeuristic)
	_, err := r.ResolvePath(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{"/src/a.swift": {"object": "/tmp/plan/a-1.o"}}`, string(written))
}

func TestResolver_WriteFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	in := domain.NewInterner()
	list := in.UniqueFileList("sources", domain.FileListContents{Kind: domain.FileListPaths})

	fs.EXPECT().WriteFile(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	r := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesHeuristic)
	_, err := r.ResolvePath(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrFileListWriteFailed.Error())
}

func TestResolver_SquashedArgumentList(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	module := in.Intern(domain.Absolute("/build/My Module.swiftmodule"))
	r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesHeuristic)

	got, err := r.ResolveArg(domain.SquashedArgumentList("--repl=", []domain.ArgTemplate{
		domain.Flag("-module-name"),
		domain.Flag("main"),
		domain.PathArg(module),
	}))
	require.NoError(t, err)
	assert.Equal(t, "--repl=-module-name main '/build/My Module.swiftmodule'", got)
}

func newResponseFileJob(in *domain.Interner, supports bool, inputs int) *domain.Job {
	args := domain.Flags("-frontend", "-c")
	for i := range inputs {
		args = append(args, domain.PathArg(in.Intern(domain.Absolute("/src/file "+strings.Repeat("x", i%3)+".swift"))))
	}
	return &domain.Job{
		Kind:                  domain.JobCompile,
		Tool:                  in.Intern(domain.Absolute("/usr/bin/swift-frontend")),
		CommandLine:           args,
		SupportsResponseFiles: supports,
		ExtraEnvironment:      map[string]string{"B": "2"},
	}
}

func TestResolver_ResolveJob_ResponseFiles(t *testing.T) {
	t.Parallel()

	t.Run("always", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		in := domain.NewInterner()
		job := newResponseFileJob(in, true, 1)

		var path string
		var content []byte
		fs.EXPECT().WriteFile(gomock.Any(), gomock.Any()).DoAndReturn(func(p string, data []byte) error {
			path, content = p, data
			return nil
		})

		r := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesAlways)
		inv, err := r.ResolveJob(job, map[string]string{"A": "1", "B": "1"})
		require.NoError(t, err)

		assert.Equal(t, "/usr/bin/swift-frontend", inv.Executable)
		assert.Equal(t, []string{"-frontend", "@" + path}, inv.Args)
		assert.Equal(t, []string{"A=1", "B=2"}, inv.Env)
		assert.True(t, strings.HasPrefix(filepath.Base(path), "arguments-"))
		assert.Equal(t, "-c\n'/src/file .swift'\n", string(content))
	})

	t.Run("unsupported tool", func(t *testing.T) {
		t.Parallel()
		in := domain.NewInterner()
		job := newResponseFileJob(in, false, 1)

		r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesAlways)
		inv, err := r.ResolveJob(job, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"-frontend", "-c", "/src/file .swift"}, inv.Args)
	})

	t.Run("never", func(t *testing.T) {
		t.Parallel()
		in := domain.NewInterner()
		job := newResponseFileJob(in, true, 10000)

		r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesNever)
		inv, err := r.ResolveJob(job, nil)
		require.NoError(t, err)
		assert.Len(t, inv.Args, 10002)
	})

	t.Run("heuristic long command line", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		in := domain.NewInterner()
		job := newResponseFileJob(in, true, 20000)

		fs.EXPECT().WriteFile(gomock.Any(), gomock.Any()).Return(nil)

		r := commandline.NewResolver(in, fs, tempDir, domain.ResponseFilesHeuristic)
		inv, err := r.ResolveJob(job, nil)
		require.NoError(t, err)
		require.Len(t, inv.Args, 2)
		assert.Equal(t, "-frontend", inv.Args[0])
	})

	t.Run("heuristic short command line", func(t *testing.T) {
		t.Parallel()
		in := domain.NewInterner()
		job := newResponseFileJob(in, true, 2)

		r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesHeuristic)
		inv, err := r.ResolveJob(job, nil)
		require.NoError(t, err)
		assert.Len(t, inv.Args, 4)
	})
}

func TestResolver_Render(t *testing.T) {
	t.Parallel()

	in := domain.NewInterner()
	job := &domain.Job{
		Kind: domain.JobLink,
		Tool: in.Intern(domain.Absolute("/usr/bin/clang")),
		CommandLine: []domain.ArgTemplate{
			domain.PathArg(in.Intern(domain.Temporary("main-1.o"))),
			domain.JoinedOptionAndPath("-L", in.Intern(domain.Absolute("/usr/lib/swift/linux"))),
			domain.Flag("-Xlinker"),
			domain.Flag("-rpath"),
			domain.ResponseFileArg(in.Intern(domain.Temporary("main-1.autolink"))),
			domain.Flag("-o"),
			domain.PathArg(in.Intern(domain.Relative("My App"))),
		},
	}

	r := commandline.NewResolver(in, nil, tempDir, domain.ResponseFilesHeuristic)

	g := goldie.New(t)
	g.Assert(t, "render_link", []byte(r.Render(job)))
}
