// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scm materializes source control references into cached archives.
//
// Archives are laid out as
//
//	<archives root>/<repository name segments...>/<ref>.tar.gz
//
// and hold a single top-level directory named app with the repository
// checked out at ref.
package scm

import "context"

// SourceReference identifies the requested revision of a repository.
type SourceReference struct {
	URL string
	Ref string
}

// Client materializes a SourceReference for one version control system.
type Client interface {
	// FetchSource returns the path of a valid archive for the reference,
	// creating it if needed. Failures are reported as *Error.
	FetchSource(ctx context.Context) (string, error)
	// RepoName is the cache key derived from the reference's URL.
	RepoName() string
	Reference() SourceReference
}
