// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/config"
	"github.com/ava-labs/srccache/constant"
	"github.com/ava-labs/srccache/scm"
	"github.com/ava-labs/srccache/srccache"
)

// environment is everything a single command invocation needs.
type environment struct {
	config   config.Config
	cache    *srccache.SrcCache
	registry *prometheus.Registry
}

func newEnvironment(fs afero.Fs) (*environment, error) {
	cfg, err := loadConfig(fs)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := scm.NewMetrics(constant.MetricsNamespace, registry)
	if err != nil {
		return nil, err
	}

	cache, err := srccache.New(srccache.Config{
		ArchivesRoot: cfg.ArchivesRoot,
		StateFile:    cfg.StateFile,
		LockFile:     cfg.LockFile(),
		Auth:         cfg.Credentials.AuthMethod(),
		Fs:           fs,
		Metrics:      metrics,
		Log:          log,
	})
	if err != nil {
		return nil, err
	}

	return &environment{
		config:   cfg,
		cache:    cache,
		registry: registry,
	}, nil
}

// writeMetrics dumps the registry in the node exporter textfile format.
func (e *environment) writeMetrics() {
	if e.config.MetricsFile == "" {
		return
	}

	if err := prometheus.WriteToTextfile(e.config.MetricsFile, e.registry); err != nil {
		log.WithError(err).Warnf("Failed to write metrics to %s", e.config.MetricsFile)
	}
}
