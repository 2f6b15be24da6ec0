// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func verify(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "verify",
		Short: "checks that every recorded archive is present, intact and unchanged",
		Args:  cobra.NoArgs,
	}
	command.RunE = func(cmd *cobra.Command, _ []string) error {
		env, err := newEnvironment(fs)
		if err != nil {
			return err
		}

		failures, err := env.cache.Verify(cmd.Context())

		out := cmd.OutOrStdout()
		for _, failure := range failures {
			fmt.Fprintf(out, "%s\t%s\n", color.RedString(failure.Path), failure.Reason)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(out, color.GreenString("All archives verified."))
		return nil
	}

	return command
}
