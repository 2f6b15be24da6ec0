// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package srccache

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/danjacques/gofslock/fslock"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/checksum"
	"github.com/ava-labs/srccache/engine"
	"github.com/ava-labs/srccache/git"
	"github.com/ava-labs/srccache/scm"
	"github.com/ava-labs/srccache/state"
	"github.com/ava-labs/srccache/workflow"
)

type Config struct {
	ArchivesRoot string
	StateFile    string
	// LockFile guards the state file across processes. Empty disables locking.
	LockFile string

	Auth        transport.AuthMethod
	Fs          afero.Fs
	Git         git.Factory
	Metrics     *scm.Metrics
	Executor    workflow.Executor
	Checksummer checksum.Checksummer
	Log         logrus.FieldLogger
}

// RefError is a failure to materialize a single ref. Errors that happen
// before any ref is attempted, like a held lock, are returned unwrapped.
type RefError struct {
	Ref string
	Err error
}

func (e *RefError) Error() string {
	return fmt.Sprintf("%s: %s", e.Ref, e.Err)
}

func (e *RefError) Unwrap() error {
	return e.Err
}

type SrcCache struct {
	archivesRoot string
	stateFile    string
	lockFile     string

	auth        transport.AuthMethod
	fs          afero.Fs
	git         git.Factory
	metrics     *scm.Metrics
	executor    workflow.Executor
	checksummer checksum.Checksummer
	log         logrus.FieldLogger
}

func New(config Config) (*SrcCache, error) {
	log := config.Log
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	if err := config.Fs.MkdirAll(config.ArchivesRoot, perms.ReadWriteExecute); err != nil {
		return nil, err
	}
	if config.LockFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.LockFile), perms.ReadWriteExecute); err != nil {
			return nil, err
		}
	}

	s := &SrcCache{
		archivesRoot: config.ArchivesRoot,
		stateFile:    config.StateFile,
		lockFile:     config.LockFile,
		auth:         config.Auth,
		fs:           config.Fs,
		git:          config.Git,
		metrics:      config.Metrics,
		executor:     config.Executor,
		checksummer:  config.Checksummer,
		log:          log,
	}
	if s.git == nil {
		s.git = git.RepositoryFactory{}
	}
	if s.executor == nil {
		s.executor = engine.NewWorkflowEngine(log)
	}
	if s.checksummer == nil {
		s.checksummer = checksum.NewSHA256(config.Fs)
	}

	return s, nil
}

// Fetch materializes each ref of url in order and returns the archive paths
// produced so far. It stops at the first failure, which is reported as a
// *RefError.
func (s *SrcCache) Fetch(ctx context.Context, url string, refs []string) ([]string, error) {
	paths := make([]string, 0, len(refs))

	err := s.withState(func(stateFile *state.File) error {
		for _, ref := range refs {
			client, err := scm.NewGit(scm.Config{
				URL:          url,
				Ref:          ref,
				ArchivesRoot: s.archivesRoot,
				Auth:         s.auth,
				Fs:           s.fs,
				Git:          s.git,
				Metrics:      s.metrics,
				Log:          s.log,
			})
			if err != nil {
				return &RefError{Ref: ref, Err: err}
			}

			wf := workflow.NewFetch(workflow.FetchConfig{
				Client:      client,
				StateFile:   stateFile,
				Checksummer: s.checksummer,
			})
			if err := s.executor.Execute(ctx, wf); err != nil {
				return &RefError{Ref: ref, Err: err}
			}

			paths = append(paths, wf.ArchivePath())
		}

		return nil
	})

	return paths, err
}

// List writes a table of every recorded archive to w.
func (s *SrcCache) List(w io.Writer) error {
	return s.withState(func(stateFile *state.File) error {
		paths := lo.Keys(stateFile.Archives)
		sort.Strings(paths)

		tw := tabwriter.NewWriter(w, 1, 1, 1, ' ', 0)
		fmt.Fprintln(tw, "repository\tref\tsha256\tpath")
		for _, path := range paths {
			info := stateFile.Archives[path]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Repository, info.Ref, info.SHA256, path)
		}

		return tw.Flush()
	})
}

// Verify re-checks every recorded archive. The returned failures are set
// even when err is non-nil.
func (s *SrcCache) Verify(ctx context.Context) ([]workflow.Failure, error) {
	var failures []workflow.Failure

	err := s.withState(func(stateFile *state.File) error {
		wf := workflow.NewVerify(workflow.VerifyConfig{
			StateFile:   stateFile,
			Checksummer: s.checksummer,
			Fs:          s.fs,
		})
		err := s.executor.Execute(ctx, wf)
		failures = wf.Failures()

		return err
	})

	return failures, err
}

// withState loads the state file under the process lock so that updates
// from concurrent commands are never lost.
func (s *SrcCache) withState(fn func(*state.File) error) error {
	run := func() error {
		stateFile, err := state.New(s.fs, s.stateFile)
		if err != nil {
			return err
		}

		return fn(stateFile)
	}

	if s.lockFile == "" {
		return run()
	}

	err := fslock.With(s.lockFile, run)
	if err == fslock.ErrLockHeld {
		return fmt.Errorf("another %s process holds %s", filepath.Base(os.Args[0]), s.lockFile)
	}

	return err
}
