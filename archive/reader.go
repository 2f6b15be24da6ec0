// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

var ErrUnsafePath = errors.New("archive entry escapes the destination directory")

// IsValid reports whether path holds a complete, readable archive.
func IsValid(fs afero.Fs, path string) bool {
	return Validate(fs, path) == nil
}

// Validate reads the whole archive at path, checking the gzip stream and
// every tar entry.
func Validate(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gzipReader, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		_, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := io.Copy(io.Discard, tarReader); err != nil {
			return err
		}
	}
}

// Extract unpacks the archive at archivePath into destDir.
func Extract(fs afero.Fs, archivePath string, destDir string) error {
	f, err := fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gzipReader, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}
		if err := checkNoSymlinks(fs, destDir, target); err != nil {
			return err
		}

		if err := extractEntry(fs, tarReader, header, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", header.Name, err)
		}
	}
}

func extractEntry(fs afero.Fs, tarReader *tar.Reader, header *tar.Header, target string) error {
	switch header.Typeflag {
	case tar.TypeDir:
		return fs.MkdirAll(target, perms.ReadWriteExecute)
	case tar.TypeReg:
		if err := fs.MkdirAll(filepath.Dir(target), perms.ReadWriteExecute); err != nil {
			return err
		}

		f, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header.FileInfo().Mode().Perm())
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tarReader); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	case tar.TypeSymlink:
		linker, ok := fs.(afero.Linker)
		if !ok {
			return fmt.Errorf("can't create symlink %s", target)
		}
		if err := fs.MkdirAll(filepath.Dir(target), perms.ReadWriteExecute); err != nil {
			return err
		}
		return linker.SymlinkIfPossible(header.Linkname, target)
	default:
		// only directories, regular files and symlinks are ever written
		return nil
	}
}

func safeJoin(root string, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	return target, nil
}

// checkNoSymlinks rejects targets that would be reached through a symlink
// created by an earlier entry, including an existing symlink at target.
func checkNoSymlinks(fs afero.Fs, root string, target string) error {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return nil
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return err
	}

	current := root
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, segment)

		info, _, err := lstater.LstatIfPossible(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s is a symlink", ErrUnsafePath, current)
		}
	}

	return nil
}
