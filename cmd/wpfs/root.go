package main

import (
	"fmt"

	"github.com/gobeaver/wpfs"
	_ "github.com/gobeaver/wpfs/driver/local"
	_ "github.com/gobeaver/wpfs/driver/memory"
	_ "github.com/gobeaver/wpfs/driver/sftp"
	"github.com/gobeaver/wpfs/internal/logging"
	"github.com/spf13/cobra"
)

// createRootCommand creates the main command that shows help by default.
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wpfs",
		Short:         "WordPress filesystem operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("method", "", "Filesystem method (direct, memory, ssh2); overrides FS_METHOD")
	flags.String("abspath", "", "Installation root; overrides ABSPATH")
	flags.Bool("guarded", false, "Turn falsy results into errors")
	flags.Bool("hookable", false, "Dispatch hooks around every call")
	flags.StringP("output", "o", "json", "Output format (json, yaml)")
	flags.String("log-level", "", "Log level; overrides WPFS_LOG_LEVEL")

	rootCmd.AddCommand(
		createCallCommand(),
		createMethodsCommand(),
		createHooksCommand(),
	)

	return rootCmd
}

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*wpfs.Config, error) {
	cfg, err := wpfs.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method, _ = flags.GetString("method")
	}
	if flags.Changed("abspath") {
		cfg.Abspath, _ = flags.GetString("abspath")
	}
	if flags.Changed("guarded") {
		cfg.Guarded, _ = flags.GetBool("guarded")
	}
	if flags.Changed("hookable") {
		cfg.Hookable, _ = flags.GetBool("hookable")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	return cfg, nil
}

// createFactory builds a factory for the command, logging to the rotating
// log file.
func createFactory(cmd *cobra.Command) (*wpfs.Factory, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		File:  cfg.LogFile,
		Level: logging.ParseLevel(cfg.LogLevel),
	})

	f, err := wpfs.New(cfg, wpfs.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filesystem: %w", err)
	}
	return f, nil
}
