// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package srccache

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danjacques/gofslock/fslock"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/golang/mock/gomock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/srccache/git"
	"github.com/ava-labs/srccache/scm"
	"github.com/ava-labs/srccache/state"
	"github.com/ava-labs/srccache/workflow"
)

const (
	url       = "https://example.com/org/repo.git"
	root      = "/archives"
	statePath = "/srccache/srccache.state"
)

func fakeCheckout(fs afero.Fs, path string, version string) error {
	if err := fs.MkdirAll(path, 0o755); err != nil {
		return err
	}

	return afero.WriteFile(fs, filepath.Join(path, "VERSION"), []byte(version), 0o644)
}

func TestSrcCacheFetchListVerify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	factory := git.NewMockFactory(ctrl)
	cloned := git.NewMockRepository(ctrl)
	opened := git.NewMockRepository(ctrl)

	var clonePath, openPath string
	gomock.InOrder(
		factory.EXPECT().Clone(gomock.Any(), url, gomock.Any(), nil).DoAndReturn(
			func(_ context.Context, _ string, path string, _ transport.AuthMethod) (git.Repository, error) {
				clonePath = path
				return cloned, fakeCheckout(fs, path, "1")
			},
		),
		factory.EXPECT().Open(gomock.Any()).DoAndReturn(func(path string) (git.Repository, error) {
			openPath = path
			return opened, nil
		}),
	)
	cloned.EXPECT().ResetTo("v1").Return(plumbing.ZeroHash, nil)
	cloned.EXPECT().WorkingDir().DoAndReturn(func() string { return clonePath })
	opened.EXPECT().Fetch(gomock.Any(), nil).Return(nil)
	opened.EXPECT().ResetTo("v2").DoAndReturn(func(string) (plumbing.Hash, error) {
		return plumbing.ZeroHash, fakeCheckout(fs, openPath, "2")
	})
	opened.EXPECT().WorkingDir().DoAndReturn(func() string { return openPath })

	cache, err := New(Config{
		ArchivesRoot: root,
		StateFile:    statePath,
		Fs:           fs,
		Git:          factory,
	})
	require.NoError(t, err)

	paths, err := cache.Fetch(context.Background(), url, []string{"v1", "v2"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/archives/org/repo/v1.tar.gz",
		"/archives/org/repo/v2.tar.gz",
	}, paths)

	stateFile, err := state.New(fs, statePath)
	require.NoError(t, err)
	require.Len(t, stateFile.Archives, 2)
	assert.Equal(t, "v2", stateFile.Archives["/archives/org/repo/v2.tar.gz"].Ref)
	assert.Equal(t, "org/repo", stateFile.Archives["/archives/org/repo/v2.tar.gz"].Repository)

	out := &bytes.Buffer{}
	require.NoError(t, cache.List(out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"repository", "ref", "sha256", "path"}, strings.Fields(lines[0]))
	assert.Equal(t, "org/repo", strings.Fields(lines[1])[0])
	assert.Equal(t, "v1", strings.Fields(lines[1])[1])
	assert.Equal(t, "/archives/org/repo/v2.tar.gz", strings.Fields(lines[2])[3])

	failures, err := cache.Verify(context.Background())
	require.NoError(t, err)
	assert.Empty(t, failures)

	require.NoError(t, fs.Remove("/archives/org/repo/v1.tar.gz"))
	failures, err = cache.Verify(context.Background())
	assert.Error(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "/archives/org/repo/v1.tar.gz", failures[0].Path)
}

func TestSrcCacheFetchStopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fs := afero.NewMemMapFs()
	factory := git.NewMockFactory(ctrl)
	factory.EXPECT().Clone(gomock.Any(), url, gomock.Any(), nil).Return(nil, errors.New("unreachable"))

	cache, err := New(Config{
		ArchivesRoot: root,
		StateFile:    statePath,
		Fs:           fs,
		Git:          factory,
	})
	require.NoError(t, err)

	paths, err := cache.Fetch(context.Background(), url, []string{"v1", "v2"})
	assert.ErrorIs(t, err, scm.CloneFailure)
	assert.Empty(t, paths)

	exists, err := afero.Exists(fs, statePath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSrcCacheFetchReportsFailedRef(t *testing.T) {
	errFailed := errors.New("failed")

	type mocks struct {
		executor *workflow.MockExecutor
	}
	tests := []struct {
		name      string
		setup     func(mocks)
		wantPaths []string
		wantErr   assert.ErrorAssertionFunc
	}{
		{
			name: "first ref fails",
			setup: func(mocks mocks) {
				mocks.executor.EXPECT().Execute(gomock.Any(), gomock.AssignableToTypeOf(&workflow.Fetch{})).Return(errFailed)
			},
			wantPaths: []string{},
			wantErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				var refErr *RefError
				return assert.ErrorAs(t, err, &refErr) &&
					assert.Equal(t, "v1", refErr.Ref) &&
					assert.ErrorIs(t, err, errFailed)
			},
		},
		{
			name: "second ref fails",
			setup: func(mocks mocks) {
				gomock.InOrder(
					mocks.executor.EXPECT().Execute(gomock.Any(), gomock.AssignableToTypeOf(&workflow.Fetch{})).Return(nil),
					mocks.executor.EXPECT().Execute(gomock.Any(), gomock.AssignableToTypeOf(&workflow.Fetch{})).Return(errFailed),
				)
			},
			// The mocked executor never runs the workflow, so no path is set.
			wantPaths: []string{""},
			wantErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				var refErr *RefError
				return assert.ErrorAs(t, err, &refErr) &&
					assert.Equal(t, "v2", refErr.Ref)
			},
		},
		{
			name: "all refs succeed",
			setup: func(mocks mocks) {
				mocks.executor.EXPECT().Execute(gomock.Any(), gomock.AssignableToTypeOf(&workflow.Fetch{})).Return(nil).Times(2)
			},
			wantPaths: []string{"", ""},
			wantErr:   assert.NoError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			executor := workflow.NewMockExecutor(ctrl)
			test.setup(mocks{executor: executor})

			cache, err := New(Config{
				ArchivesRoot: root,
				StateFile:    statePath,
				Fs:           afero.NewMemMapFs(),
				Git:          git.NewMockFactory(ctrl),
				Executor:     executor,
			})
			require.NoError(t, err)

			paths, err := cache.Fetch(context.Background(), url, []string{"v1", "v2"})

			test.wantErr(t, err)
			assert.Equal(t, test.wantPaths, paths)
		})
	}
}

func TestSrcCacheInvalidReference(t *testing.T) {
	cache, err := New(Config{
		ArchivesRoot: root,
		StateFile:    statePath,
		Fs:           afero.NewMemMapFs(),
	})
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), url, []string{"../escape"})
	assert.ErrorIs(t, err, scm.InvalidReference)

	var refErr *RefError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "../escape", refErr.Ref)
}

func TestSrcCacheLockHeld(t *testing.T) {
	lockFile := filepath.Join(t.TempDir(), "srccache.state.lock")

	cache, err := New(Config{
		ArchivesRoot: root,
		StateFile:    statePath,
		LockFile:     lockFile,
		Fs:           afero.NewMemMapFs(),
	})
	require.NoError(t, err)

	// Uncontended commands take and release the lock.
	require.NoError(t, cache.List(&bytes.Buffer{}))

	handle, err := fslock.Lock(lockFile)
	require.NoError(t, err)
	defer handle.Unlock()

	err = cache.List(&bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), lockFile)

	// A held lock isn't blamed on any ref.
	_, err = cache.Fetch(context.Background(), url, []string{"v1"})
	require.Error(t, err)
	var refErr *RefError
	assert.False(t, errors.As(err, &refErr))
}
