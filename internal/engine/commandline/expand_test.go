package commandline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/swiftplan/internal/core/ports/mocks"
	"go.trai.ch/swiftplan/internal/engine/commandline"
	"go.uber.org/mock/gomock"
)

func TestExpandResponseFiles(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fs := mocks.NewMockFileSystem(ctrl)
	fs.EXPECT().ReadFile("outer.resp").Return([]byte("-module-name Foo\n@inner.resp 'b c.swift'\n"), nil)
	fs.EXPECT().ReadFile("inner.resp").Return([]byte("a.swift"), nil)

	got, err := commandline.ExpandResponseFiles(fs, []string{"-c", "@outer.resp", "@"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", "-module-name", "Foo", "a.swift", "b c.swift", "@"}, got)
}

func TestExpandResponseFiles_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		fs.EXPECT().ReadFile("missing.resp").Return(nil, errors.New("no such file"))

		_, err := commandline.ExpandResponseFiles(fs, []string{"@missing.resp"})
		require.Error(t, err)
	})

	t.Run("unterminated quote", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		fs.EXPECT().ReadFile("bad.resp").Return([]byte("'open"), nil)

		_, err := commandline.ExpandResponseFiles(fs, []string{"@bad.resp"})
		require.Error(t, err)
	})

	t.Run("self reference", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		fs := mocks.NewMockFileSystem(ctrl)
		fs.EXPECT().ReadFile("loop.resp").Return([]byte("@loop.resp"), nil).AnyTimes()

		_, err := commandline.ExpandResponseFiles(fs, []string{"@loop.resp"})
		require.Error(t, err)
	})
}
