// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/archive"
	"github.com/ava-labs/srccache/checksum"
	"github.com/ava-labs/srccache/state"
)

var (
	errVerificationFailed = errors.New("archive verification failed")

	_ Workflow = &Verify{}
)

// Failure describes a recorded archive that no longer checks out.
type Failure struct {
	Path   string
	Reason string
}

type VerifyConfig struct {
	StateFile   *state.File
	Checksummer checksum.Checksummer
	Fs          afero.Fs
}

func NewVerify(config VerifyConfig) *Verify {
	return &Verify{
		stateFile:   config.StateFile,
		checksummer: config.Checksummer,
		fs:          config.Fs,
	}
}

// Verify checks that every archive in the state file still exists, is a
// valid archive and matches its recorded checksum.
type Verify struct {
	stateFile   *state.File
	checksummer checksum.Checksummer
	fs          afero.Fs

	failures []Failure
}

func (v *Verify) Execute(ctx context.Context) error {
	v.failures = nil

	paths := lo.Keys(v.stateFile.Archives)
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reason := v.check(path, v.stateFile.Archives[path]); reason != "" {
			v.failures = append(v.failures, Failure{Path: path, Reason: reason})
		}
	}

	if len(v.failures) > 0 {
		return fmt.Errorf("%w: %d of %d archives", errVerificationFailed, len(v.failures), len(paths))
	}

	return nil
}

func (v *Verify) check(path string, info *state.ArchiveInfo) string {
	if _, err := v.fs.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "missing"
	} else if err != nil {
		return err.Error()
	}

	if err := archive.Validate(v.fs, path); err != nil {
		return fmt.Sprintf("corrupt: %s", err)
	}

	sum, err := v.checksummer.Checksum(path)
	if err != nil {
		return err.Error()
	}
	if sum != info.SHA256 {
		return fmt.Sprintf("checksum mismatch: expected %s but saw %s", info.SHA256, sum)
	}

	return ""
}

func (v *Verify) Failures() []Failure {
	return v.failures
}
