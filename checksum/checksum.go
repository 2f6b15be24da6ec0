// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
)

type Checksummer interface {
	// Checksum returns the hex encoded digest of the file at path.
	Checksum(path string) (string, error)
}

var _ Checksummer = &SHA256{}

func NewSHA256(fs afero.Fs) *SHA256 {
	return &SHA256{
		fs: fs,
	}
}

type SHA256 struct {
	fs afero.Fs
}

func (s SHA256) Checksum(path string) (string, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
