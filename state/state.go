// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ArchiveInfo describes an archive materialized through the cache.
type ArchiveInfo struct {
	URL        string    `yaml:"url"`
	Ref        string    `yaml:"ref"`
	Repository string    `yaml:"repository"`
	SHA256     string    `yaml:"sha256"`
	FetchedAt  time.Time `yaml:"fetched-at"`
}

func newEmpty(fs afero.Fs, path string) *File {
	return &File{
		Archives: make(map[string]*ArchiveInfo),
		fs:       fs,
		path:     path,
	}
}

// New loads the state file at path. A missing file yields an empty state
// that is created on the first Commit.
func New(fs afero.Fs, path string) (*File, error) {
	result := newEmpty(fs, path)

	b, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	} else if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, result); err != nil {
		return nil, err
	}
	if result.Archives == nil {
		result.Archives = make(map[string]*ArchiveInfo)
	}

	return result, nil
}

// File is the record of every archive fetched by this cache, keyed by
// archive path.
// Not safe for concurrent use.
type File struct {
	Archives map[string]*ArchiveInfo `yaml:"archives"`

	fs   afero.Fs
	path string
}

func (s *File) Path() string {
	return s.path
}

func (s *File) Commit() error {
	bytes, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), perms.ReadWriteExecute); err != nil {
		return err
	}

	return afero.WriteFile(s.fs, s.path, bytes, perms.ReadWrite)
}
