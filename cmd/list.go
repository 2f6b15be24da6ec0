package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func list(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "lists the archives recorded in the state file",
		Args:  cobra.NoArgs,
	}
	command.RunE = func(cmd *cobra.Command, _ []string) error {
		env, err := newEnvironment(fs)
		if err != nil {
			return err
		}

		return env.cache.List(cmd.OutOrStdout())
	}

	return command
}
