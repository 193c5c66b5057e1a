package main

import (
	"fmt"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/cobra"
)

// createCallCommand creates the call command.
func createCallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "call <Method> [args...]",
		Short: "Call a filesystem method",
		Long: `Call a filesystem method by name, e.g.

  wpfs call getContents wp-config.php
  wpfs call PutContents notes.txt "hello" 0644
  wpfs call GetDirectoryList wp-content true false

Arguments are converted to the parameter types of the method. Lists are
comma separated, modes are octal, durations use Go syntax and structured
values are JSON.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, method, ok := wpfs.Resolve(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", wpfs.ErrMethodNotFound, args[0])
			}

			values, err := convertArgs(method.Type, args[1:])
			if err != nil {
				return err
			}

			format, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}

			f, err := createFactory(cmd)
			if err != nil {
				return err
			}
			defer closeFactory(f)

			results, err := wpfs.NewFacade(f).Call(cmd.Context(), args[0], values...)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), format, results)
		},
	}
}

func closeFactory(f *wpfs.Factory) {
	if c, ok := f.Environment().Host.(wpfs.CanClose); ok {
		_ = c.Close()
	}
}
