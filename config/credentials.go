// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// AuthMethod returns nil for a nil credential so go-git falls back to
// anonymous access instead of sending empty basic auth.
func (c *Credential) AuthMethod() transport.AuthMethod {
	if c == nil {
		return nil
	}

	return &http.BasicAuth{
		Username: c.Username,
		Password: c.Password,
	}
}

// ReadCredential parses a YAML credentials file.
func ReadCredential(fs afero.Fs, path string) (*Credential, error) {
	bytes, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	credential := &Credential{}
	if err := yaml.Unmarshal(bytes, credential); err != nil {
		return nil, err
	}

	return credential, nil
}
