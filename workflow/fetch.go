// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/srccache/checksum"
	"github.com/ava-labs/srccache/scm"
	"github.com/ava-labs/srccache/state"
)

var _ Workflow = &Fetch{}

type FetchConfig struct {
	Client      scm.Client
	StateFile   *state.File
	Checksummer checksum.Checksummer
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewFetch(config FetchConfig) *Fetch {
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Fetch{
		client:      config.Client,
		stateFile:   config.StateFile,
		checksummer: config.Checksummer,
		clock:       clock,
	}
}

// Fetch materializes a single reference and records the resulting archive
// in the state file.
type Fetch struct {
	client      scm.Client
	stateFile   *state.File
	checksummer checksum.Checksummer
	clock       func() time.Time

	archivePath string
}

func (f *Fetch) Execute(ctx context.Context) error {
	path, err := f.client.FetchSource(ctx)
	if err != nil {
		return err
	}

	sum, err := f.checksummer.Checksum(path)
	if err != nil {
		return fmt.Errorf("failed to checksum %s: %w", path, err)
	}

	reference := f.client.Reference()
	f.stateFile.Archives[path] = &state.ArchiveInfo{
		URL:        reference.URL,
		Ref:        reference.Ref,
		Repository: f.client.RepoName(),
		SHA256:     sum,
		FetchedAt:  f.clock().UTC(),
	}
	if err := f.stateFile.Commit(); err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}

	f.archivePath = path
	return nil
}

// ArchivePath is the archive produced by the last successful Execute.
func (f *Fetch) ArchivePath() string {
	return f.archivePath
}
