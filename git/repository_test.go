// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signature = &object.Signature{
	Name:  "srccache",
	Email: "srccache@example.com",
	When:  time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
}

type upstream struct {
	t    *testing.T
	path string
	repo *gogit.Repository
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	path := t.TempDir()
	repo, err := gogit.PlainInit(path, false)
	require.NoError(t, err)

	return &upstream{t: t, path: path, repo: repo}
}

func (u *upstream) commit(name string, contents string) plumbing.Hash {
	u.t.Helper()

	require.NoError(u.t, os.WriteFile(filepath.Join(u.path, name), []byte(contents), 0o644))

	worktree, err := u.repo.Worktree()
	require.NoError(u.t, err)
	_, err = worktree.Add(name)
	require.NoError(u.t, err)

	hash, err := worktree.Commit("update "+name, &gogit.CommitOptions{Author: signature})
	require.NoError(u.t, err)

	return hash
}

func (u *upstream) branch(name string, hash plumbing.Hash) {
	u.t.Helper()

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), hash)
	require.NoError(u.t, u.repo.Storer.SetReference(ref))
}

func (u *upstream) tag(name string, hash plumbing.Hash, annotated bool) {
	u.t.Helper()

	var opts *gogit.CreateTagOptions
	if annotated {
		opts = &gogit.CreateTagOptions{Tagger: signature, Message: name}
	}
	_, err := u.repo.CreateTag(name, hash, opts)
	require.NoError(u.t, err)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(b)
}

func TestRemoteResetTo(t *testing.T) {
	origin := newUpstream(t)
	first := origin.commit("VERSION", "1")
	second := origin.commit("VERSION", "2")
	origin.branch("feature", first)
	origin.branch("release/1.x", first)
	origin.tag("v1", first, false)
	origin.tag("v2", second, true)

	tests := []struct {
		name     string
		ref      string
		want     plumbing.Hash
		contents string
		wantErr  assert.ErrorAssertionFunc
	}{
		{
			name:     "default branch",
			ref:      "master",
			want:     second,
			contents: "2",
			wantErr:  assert.NoError,
		},
		{
			name:     "branch",
			ref:      "feature",
			want:     first,
			contents: "1",
			wantErr:  assert.NoError,
		},
		{
			name:     "branch with slash",
			ref:      "release/1.x",
			want:     first,
			contents: "1",
			wantErr:  assert.NoError,
		},
		{
			name:     "lightweight tag",
			ref:      "v1",
			want:     first,
			contents: "1",
			wantErr:  assert.NoError,
		},
		{
			name:     "annotated tag",
			ref:      "v2",
			want:     second,
			contents: "2",
			wantErr:  assert.NoError,
		},
		{
			name:     "full commit hash",
			ref:      first.String(),
			want:     first,
			contents: "1",
			wantErr:  assert.NoError,
		},
		{
			name: "unknown reference",
			ref:  "does-not-exist",
			want: plumbing.ZeroHash,
			wantErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				return assert.ErrorIs(t, err, ErrInvalidReference)
			},
		},
		{
			name: "unknown commit",
			ref:  "0123456789012345678901234567890123456789",
			want: plumbing.ZeroHash,
			wantErr: func(t assert.TestingT, err error, i ...interface{}) bool {
				return assert.ErrorIs(t, err, ErrInvalidReference)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "repo")
			repo, err := RepositoryFactory{}.Clone(context.Background(), origin.path, path, nil)
			require.NoError(t, err)
			assert.Equal(t, path, repo.WorkingDir())

			hash, err := repo.ResetTo(test.ref)

			test.wantErr(t, err)
			assert.Equal(t, test.want, hash)
			if err != nil {
				return
			}

			assert.Equal(t, test.contents, readFile(t, filepath.Join(path, "VERSION")))

			// HEAD is detached at the commit.
			opened, err := gogit.PlainOpen(path)
			require.NoError(t, err)
			head, err := opened.Reference(plumbing.HEAD, false)
			require.NoError(t, err)
			assert.Equal(t, plumbing.HashReference, head.Type())
			assert.Equal(t, test.want, head.Hash())
		})
	}
}

func TestRemoteResetToDiscardsLocalChanges(t *testing.T) {
	origin := newUpstream(t)
	hash := origin.commit("VERSION", "1")

	path := filepath.Join(t.TempDir(), "repo")
	repo, err := RepositoryFactory{}.Clone(context.Background(), origin.path, path, nil)
	require.NoError(t, err)
	_, err = repo.ResetTo("master")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(path, "VERSION"), []byte("dirty"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "untracked.txt"), []byte("scratch"), 0o644))

	got, err := repo.ResetTo("master")
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	assert.Equal(t, "1", readFile(t, filepath.Join(path, "VERSION")))
	_, err = os.Stat(filepath.Join(path, "untracked.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	opened, err := gogit.PlainOpen(path)
	require.NoError(t, err)
	worktree, err := opened.Worktree()
	require.NoError(t, err)
	status, err := worktree.Status()
	require.NoError(t, err)
	assert.True(t, status.IsClean(), status.String())
}

func TestRemoteFetch(t *testing.T) {
	origin := newUpstream(t)
	origin.commit("VERSION", "1")

	path := filepath.Join(t.TempDir(), "repo")
	_, err := RepositoryFactory{}.Clone(context.Background(), origin.path, path, nil)
	require.NoError(t, err)

	latest := origin.commit("VERSION", "2")
	origin.tag("v2", latest, true)

	repo, err := RepositoryFactory{}.Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Fetch(context.Background(), nil))

	// Fetching again with nothing new is not an error.
	require.NoError(t, repo.Fetch(context.Background(), nil))

	hash, err := repo.ResetTo("master")
	require.NoError(t, err)
	assert.Equal(t, latest, hash)
	assert.Equal(t, "2", readFile(t, filepath.Join(path, "VERSION")))

	hash, err = repo.ResetTo("v2")
	require.NoError(t, err)
	assert.Equal(t, latest, hash)
}

func TestRepositoryFactoryCloneNoCheckout(t *testing.T) {
	origin := newUpstream(t)
	origin.commit("VERSION", "1")

	path := filepath.Join(t.TempDir(), "repo")
	_, err := RepositoryFactory{}.Clone(context.Background(), origin.path, path, nil)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(path, "VERSION"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRepositoryFactoryErrors(t *testing.T) {
	_, err := RepositoryFactory{}.Clone(context.Background(), filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "repo"), nil)
	assert.Error(t, err)

	_, err = RepositoryFactory{}.Open(t.TempDir())
	assert.ErrorIs(t, err, gogit.ErrRepositoryNotExists)
}
