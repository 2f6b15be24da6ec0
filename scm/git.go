// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/archive"
	"github.com/ava-labs/srccache/constant"
	"github.com/ava-labs/srccache/git"
)

const (
	opValidate = "validate"
	opClone    = "clone"
	opExtract  = "extract"
	opFetch    = "fetch"
	opReset    = "reset"
	opArchive  = "archive"

	cloneDir = "repo"
)

var _ Client = &Git{}

type Config struct {
	URL          string
	Ref          string
	ArchivesRoot string

	// Auth is passed to every clone and fetch. nil means anonymous access.
	Auth transport.AuthMethod
	Fs   afero.Fs
	// Git defaults to go-git on the local filesystem.
	Git git.Factory
	// Metrics defaults to a set registered nowhere.
	Metrics *Metrics
	Log     logrus.FieldLogger
}

// Git materializes references of a git repository.
//
// The repository name and cache location are derived once, when the Git is
// created. Concurrent fetches of different refs of the same repository share
// a package directory without any locking: a fetch may pick a seed archive
// that another process is still renaming into place.
type Git struct {
	reference SourceReference
	repoName  string
	location  Location

	auth    transport.AuthMethod
	fs      afero.Fs
	git     git.Factory
	metrics *Metrics
	log     logrus.FieldLogger
}

func NewGit(config Config) (*Git, error) {
	log := config.Log
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	log = log.WithFields(logrus.Fields{
		"url": config.URL,
		"ref": config.Ref,
	})

	repoName, err := RepositoryName(config.URL)
	if err != nil {
		log.WithError(err).Error("Failed to parse the repository name")
		return nil, &Error{
			Kind:    InvalidRepository,
			Message: fmt.Sprintf("The repository URL %q is not valid", config.URL),
			Err:     err,
		}
	}
	log.Debugf("Parsed the repository name %q", repoName)

	location, err := NewLocation(config.Fs, config.ArchivesRoot, repoName, config.Ref)
	if errors.Is(err, errEmptyRef) || errors.Is(err, errUnsafePath) {
		log.WithError(err).Error("Rejected the reference")
		return nil, &Error{
			Kind:    InvalidReference,
			Message: fmt.Sprintf("The reference %q is not valid", config.Ref),
			Err:     err,
		}
	} else if err != nil {
		log.WithError(err).Error("Failed to create the package directory")
		return nil, &Error{
			Kind:    ArchiveIOFailure,
			Message: "Failed to prepare the archives directory",
			Err:     err,
		}
	}
	log.Debugf("Using %q as the archive path", location.ArchivePath)

	metrics := config.Metrics
	if metrics == nil {
		// A private registry never reports duplicate registrations.
		if metrics, err = NewMetrics(constant.MetricsNamespace, prometheus.NewRegistry()); err != nil {
			return nil, err
		}
	}

	factory := config.Git
	if factory == nil {
		factory = git.RepositoryFactory{}
	}

	return &Git{
		reference: SourceReference{URL: config.URL, Ref: config.Ref},
		repoName:  repoName,
		location:  location,
		auth:      config.Auth,
		fs:        config.Fs,
		git:       factory,
		metrics:   metrics,
		log:       log,
	}, nil
}

func (g *Git) RepoName() string {
	return g.repoName
}

func (g *Git) Reference() SourceReference {
	return g.reference
}

func (g *Git) Location() Location {
	return g.location
}

func (g *Git) FetchSource(ctx context.Context) (string, error) {
	start := time.Now()
	path, err := g.fetchSource(ctx)
	g.metrics.observe(start, err)

	return path, err
}

func (g *Git) fetchSource(ctx context.Context) (string, error) {
	archivePath := g.location.ArchivePath

	// An existing archive is authoritative unless it's corrupt.
	if _, err := g.fs.Stat(archivePath); err == nil {
		if archive.IsValid(g.fs, archivePath) {
			g.log.Debugf("The archive already exists at %q", archivePath)
			g.metrics.cacheHits.Inc()
			return archivePath, nil
		}
		g.log.Warnf("The archive at %q is corrupt and will be regenerated", archivePath)
	}

	seed, err := g.latestArchive()
	if err != nil {
		return "", g.fail(ArchiveIOFailure, opValidate, "Failed to look up previously cached archives", err)
	}

	tmpDir, err := afero.TempDir(g.fs, "", constant.TmpPrefix)
	if err != nil {
		return "", g.fail(ArchiveIOFailure, opArchive, "Failed to create a temporary directory", err)
	}
	defer func() {
		if err := g.fs.RemoveAll(tmpDir); err != nil {
			g.log.WithError(err).Warnf("Failed to remove the temporary directory %q", tmpDir)
		}
	}()

	var repo git.Repository
	if seed != "" {
		repo, err = g.update(ctx, seed, tmpDir)
	} else {
		repo, err = g.clone(ctx, tmpDir)
	}
	if err != nil {
		return "", err
	}

	if err := g.resetHead(repo); err != nil {
		return "", err
	}

	g.log.Debugf("Creating the archive at %q", archivePath)
	if err := archive.Write(g.fs, repo.WorkingDir(), archivePath); err != nil {
		return "", g.fail(ArchiveIOFailure, opArchive, "Failed to create the source archive", err)
	}

	return archivePath, nil
}

// clone performs a full clone into dir without checking out any files.
func (g *Git) clone(ctx context.Context, dir string) (git.Repository, error) {
	g.log.Debugf("Cloning the Git repository from %s", g.reference.URL)

	repo, err := g.git.Clone(ctx, g.reference.URL, filepath.Join(dir, cloneDir), g.auth)
	if err != nil {
		return nil, g.fail(CloneFailure, opClone, "Cloning the Git repository failed", err)
	}
	g.metrics.clones.Inc()

	return repo, nil
}

// update restores the working tree held by seed into dir and fetches the
// latest history on top of it.
func (g *Git) update(ctx context.Context, seed string, dir string) (git.Repository, error) {
	if err := archive.Extract(g.fs, seed, dir); err != nil {
		return nil, g.fail(ArchiveIOFailure, opExtract, "Failed to extract the previously cached archive", err)
	}

	repo, err := g.git.Open(filepath.Join(dir, constant.ArchiveRoot))
	if err != nil {
		return nil, g.fail(ArchiveIOFailure, opExtract, "The previously cached archive doesn't hold a Git repository", err)
	}

	if err := repo.Fetch(ctx, g.auth); err != nil {
		return nil, g.fail(FetchFailure, opFetch, "Failed to fetch from the remote Git repository", err)
	}
	g.metrics.fetches.Inc()

	return repo, nil
}

func (g *Git) resetHead(repo git.Repository) error {
	hash, err := repo.ResetTo(g.reference.Ref)
	if err != nil {
		return g.fail(
			InvalidReference,
			opReset,
			fmt.Sprintf("Checking out the Git repository failed. Please verify the supplied reference of %q is valid.", g.reference.Ref),
			err,
		)
	}
	g.log.Debugf("Reset the working tree to %s", hash)

	return nil
}

// latestArchive returns the most recently written valid archive in the
// package directory, or an empty string if there isn't one. The seed may be
// any revision of the repository.
func (g *Git) latestArchive() (string, error) {
	entries, err := afero.ReadDir(g.fs, g.location.PackageDir)
	if err != nil {
		return "", err
	}

	candidates := lo.Filter(entries, func(entry os.FileInfo, _ int) bool {
		return entry.Mode().IsRegular() &&
			strings.HasSuffix(entry.Name(), constant.ArchiveSuffix) &&
			filepath.Join(g.location.PackageDir, entry.Name()) != g.location.ArchivePath
	})

	for len(candidates) > 0 {
		newest := lo.MaxBy(candidates, func(a os.FileInfo, b os.FileInfo) bool {
			return a.ModTime().After(b.ModTime())
		})

		path := filepath.Join(g.location.PackageDir, newest.Name())
		if archive.IsValid(g.fs, path) {
			g.log.WithField("seed", path).Debug("Selected a previously cached archive as the seed")
			return path, nil
		}
		g.log.Warnf("Skipping the corrupt archive %q", path)

		candidates = lo.Reject(candidates, func(entry os.FileInfo, _ int) bool {
			return entry.Name() == newest.Name()
		})
	}

	return "", nil
}

func (g *Git) fail(kind Kind, operation string, message string, cause error) error {
	g.log.WithFields(logrus.Fields{
		"operation": operation,
	}).WithError(cause).Error(message)

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     cause,
	}
}
