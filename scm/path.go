// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scm

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/constant"
)

var (
	errEmptyName   = errors.New("repository name is empty")
	errEmptyRef    = errors.New("reference is empty")
	errUnsafePath  = errors.New("path escapes the archives root")
	nameDelimiter  = "/"
	gitSuffix      = ".git"
	unsafeSegments = map[string]struct{}{".": {}, "..": {}}
)

// Location is where the archive for a single reference lives.
type Location struct {
	ArchivesRoot string
	PackageDir   string
	ArchivePath  string
}

// NewLocation derives the cache layout for repoName at ref and makes sure
// the package directory exists.
func NewLocation(fs afero.Fs, archivesRoot string, repoName string, ref string) (Location, error) {
	if err := validateRef(ref); err != nil {
		return Location{}, err
	}

	packageDir, err := PackageDir(fs, archivesRoot, repoName)
	if err != nil {
		return Location{}, err
	}

	return Location{
		ArchivesRoot: archivesRoot,
		PackageDir:   packageDir,
		ArchivePath:  ArchivePath(packageDir, ref),
	}, nil
}

// RepositoryName derives the repository name from the path of rawURL, e.g.
// https://example.com/foo/bar.git becomes foo/bar.
func RepositoryName(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	name := strings.Trim(parsed.Path, nameDelimiter)
	name = strings.TrimSuffix(name, gitSuffix)
	if name == "" {
		return "", errEmptyName
	}

	for _, segment := range strings.Split(name, nameDelimiter) {
		if _, ok := unsafeSegments[segment]; ok {
			return "", fmt.Errorf("%w: %s", errUnsafePath, name)
		}
	}

	return name, nil
}

// PackageDir returns the directory holding every archive of repoName,
// creating it if needed.
func PackageDir(fs afero.Fs, archivesRoot string, repoName string) (string, error) {
	segments := append([]string{archivesRoot}, strings.Split(repoName, nameDelimiter)...)
	packageDir := filepath.Join(segments...)

	if err := fs.MkdirAll(packageDir, perms.ReadWriteExecute); err != nil {
		return "", err
	}

	return packageDir, nil
}

func ArchivePath(packageDir string, ref string) string {
	return filepath.Join(packageDir, ref+constant.ArchiveSuffix)
}

func validateRef(ref string) error {
	if ref == "" {
		return errEmptyRef
	}
	if strings.HasPrefix(ref, nameDelimiter) {
		return fmt.Errorf("%w: %s", errUnsafePath, ref)
	}
	for _, segment := range strings.Split(ref, nameDelimiter) {
		if _, ok := unsafeSegments[segment]; ok {
			return fmt.Errorf("%w: %s", errUnsafePath, ref)
		}
	}

	return nil
}
