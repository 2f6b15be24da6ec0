// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package git

import (
	"context"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

var _ Factory = RepositoryFactory{}

// Factory creates working trees. None of its operations ever prompt for
// credentials: a missing or rejected auth surfaces as an error.
type Factory interface {
	// Clone clones url into path without checking out any files.
	Clone(ctx context.Context, url string, path string, auth transport.AuthMethod) (Repository, error)
	// Open opens an existing working tree at path.
	Open(path string) (Repository, error)
}

type RepositoryFactory struct{}

func (f RepositoryFactory) Clone(ctx context.Context, url string, path string, auth transport.AuthMethod) (Repository, error) {
	repo, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:        url,
		Auth:       auth,
		NoCheckout: true,
		Tags:       git.AllTags,
		Progress:   io.Discard,
	})
	if err != nil {
		return nil, err
	}

	return &Remote{repo: repo, path: path}, nil
}

func (f RepositoryFactory) Open(path string) (Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}

	return &Remote{repo: repo, path: path}, nil
}
