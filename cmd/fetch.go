// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ava-labs/srccache/srccache"
)

func fetch(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "fetch <url> <ref> [<ref>...]",
		Short: "materializes each ref of a git repository as a tar.gz archive",
		Args:  cobra.MinimumNArgs(2),
	}
	command.RunE = func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment(fs)
		if err != nil {
			return err
		}
		defer env.writeMetrics()

		url, refs := args[0], args[1:]
		paths, err := env.cache.Fetch(cmd.Context(), url, refs)

		out := cmd.OutOrStdout()
		for i, path := range paths {
			fmt.Fprintf(out, "%s\t%s\n", color.GreenString(refs[i]), path)
		}
		var refErr *srccache.RefError
		if errors.As(err, &refErr) {
			fmt.Fprintf(out, "%s\t%s\n", color.RedString(refErr.Ref), refErr.Err)
		}

		return err
	}

	return command
}
