package main

import (
	"fmt"

	"github.com/gobeaver/wpfs"
	"github.com/spf13/cobra"
)

// createHooksCommand lists the hook names dispatched by hookable services.
func createHooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List hook names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := wpfs.ProviderOrder
			if k, _ := cmd.Flags().GetString("kind"); k != "" {
				kind, err := parseKind(k)
				if err != nil {
					return err
				}
				kinds = []wpfs.Kind{kind}
			}

			out := cmd.OutOrStdout()
			for _, kind := range kinds {
				for _, name := range wpfs.HookNames(kind) {
					if _, err := fmt.Fprintln(out, name); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().String("kind", "", "Only list hooks of one service (reader, action, auditor, manager, advanced)")
	return cmd
}

func parseKind(s string) (wpfs.Kind, error) {
	switch s {
	case "reader":
		return wpfs.KindReader, nil
	case "action":
		return wpfs.KindAction, nil
	case "auditor":
		return wpfs.KindAuditor, nil
	case "manager":
		return wpfs.KindManager, nil
	case "advanced":
		return wpfs.KindAdvanced, nil
	}
	for _, kind := range wpfs.ProviderOrder {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %s", wpfs.ErrUnsupportedKind, s)
}
