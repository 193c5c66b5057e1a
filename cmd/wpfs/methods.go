package main

import (
	"fmt"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/cobra"
)

// createMethodsCommand lists the methods `wpfs call` accepts.
func createMethodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List callable methods grouped by service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			methods := wpfs.Methods()
			out := cmd.OutOrStdout()
			for _, kind := range wpfs.ProviderOrder {
				if _, err := fmt.Fprintf(out, "%s:\n", kind); err != nil {
					return err
				}
				for _, name := range methods[kind] {
					if _, err := fmt.Fprintf(out, "  %s\n", name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}
