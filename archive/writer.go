// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package archive reads and writes the gzip compressed tarballs stored in the
// source cache.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/constant"
)

// Write archives sourceDir into archivePath. The contents of sourceDir are
// nested under constant.ArchiveRoot no matter what sourceDir is called.
//
// The archive is staged next to archivePath and renamed into place once
// complete, so archivePath is never left holding a partial archive.
func Write(fs afero.Fs, sourceDir string, archivePath string) (err error) {
	dir := filepath.Dir(archivePath)
	if err := fs.MkdirAll(dir, perms.ReadWriteExecute); err != nil {
		return err
	}

	staged, err := afero.TempFile(fs, dir, fmt.Sprintf(".%s.tmp-", filepath.Base(archivePath)))
	if err != nil {
		return err
	}
	stagedPath := staged.Name()
	defer func() {
		if err != nil {
			_ = fs.Remove(stagedPath)
		}
	}()

	if err := writeTarball(fs, sourceDir, staged); err != nil {
		_ = staged.Close()
		return err
	}
	if err := staged.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(stagedPath, perms.ReadWrite); err != nil {
		return err
	}

	return fs.Rename(stagedPath, archivePath)
}

func writeTarball(fs afero.Fs, sourceDir string, w io.Writer) error {
	gzipWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzipWriter)

	err := afero.Walk(fs, sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		name := constant.ArchiveRoot
		if rel != "." {
			name = filepath.ToSlash(filepath.Join(constant.ArchiveRoot, rel))
		}

		return addEntry(fs, tarWriter, path, name, info)
	})
	if err != nil {
		return err
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}

	return gzipWriter.Close()
}

func addEntry(fs afero.Fs, tarWriter *tar.Writer, path string, name string, info os.FileInfo) error {
	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		reader, ok := fs.(afero.LinkReader)
		if !ok {
			return fmt.Errorf("can't read symlink %s", path)
		}

		var err error
		if link, err = reader.ReadlinkIfPossible(path); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}

	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tarWriter, f)
	return err
}
