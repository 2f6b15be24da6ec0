// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package constant

const (
	AppName = "srccache"

	// ArchiveSuffix is appended to a ref to name its archive.
	ArchiveSuffix = ".tar.gz"
	// ArchiveRoot is the single top-level entry of every archive.
	ArchiveRoot = "app"

	RemoteName = "origin"
	TmpPrefix  = AppName + "-"

	MetricsNamespace = AppName
)
