// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config is the resolved command line configuration.
type Config struct {
	ArchivesRoot string
	StateFile    string
	MetricsFile  string
	LogLevel     logrus.Level
	Credentials  *Credential
}

// LockFile sits next to the state file it guards.
func (c Config) LockFile() string {
	return c.StateFile + ".lock"
}

// Normalize makes every path absolute.
func (c *Config) Normalize() error {
	for _, path := range []*string{&c.ArchivesRoot, &c.StateFile, &c.MetricsFile} {
		if *path == "" {
			continue
		}

		abs, err := filepath.Abs(*path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *path, err)
		}
		*path = abs
	}

	if c.ArchivesRoot == "" {
		return fmt.Errorf("archives root must be set")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state file must be set")
	}

	return nil
}
