package git

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/ava-labs/srccache/constant"
)

var (
	// ErrInvalidReference is returned when a reference doesn't resolve to a
	// commit in the working tree's history.
	ErrInvalidReference = errors.New("invalid reference")

	_ Repository = &Remote{}
)

type Repository interface {
	// Fetch updates the remote-tracking references and tags from origin.
	Fetch(ctx context.Context, auth transport.AuthMethod) error
	// ResetTo detaches HEAD at ref and hard resets the index and working
	// tree to it.
	ResetTo(ref string) (plumbing.Hash, error)
	WorkingDir() string
}

type Remote struct {
	repo *git.Repository
	path string
}

func (r *Remote) WorkingDir() string {
	return r.path
}

func (r *Remote) Fetch(ctx context.Context, auth transport.AuthMethod) error {
	err := r.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: constant.RemoteName,
		Auth:       auth,
		Tags:       git.AllTags,
		Force:      true,
		Progress:   io.Discard,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}

	return nil
}

func (r *Remote) ResetTo(ref string) (plumbing.Hash, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w %q: %s", ErrInvalidReference, ref, err)
	}

	// Point HEAD straight at the commit so the reset never moves a branch.
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)); err != nil {
		return plumbing.ZeroHash, err
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := worktree.Reset(&git.ResetOptions{
		Commit: hash,
		Mode:   git.HardReset,
	}); err != nil {
		return plumbing.ZeroHash, err
	}

	return hash, nil
}

// resolve finds the commit ref points at. Remote-tracking branches win over
// local ones because local branches aren't moved by Fetch.
func (r *Remote) resolve(ref string) (plumbing.Hash, error) {
	candidates := []plumbing.ReferenceName{
		plumbing.NewRemoteReferenceName(constant.RemoteName, ref),
		plumbing.NewTagReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
		plumbing.ReferenceName(ref),
	}
	for _, name := range candidates {
		reference, err := r.repo.Reference(name, true)
		if err == nil {
			return r.peel(reference.Hash())
		}
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return r.peel(*hash)
}

// peel follows annotated tags down to the commit they point at.
func (r *Remote) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	if tag, err := r.repo.TagObject(hash); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return commit.Hash, nil
	}

	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return commit.Hash, nil
}
