package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config/config.yaml"

func newRootCommand() *cobra.Command {
	var configFlag string
	var outputFlag string
	var verbose bool

	ctx := newCommandContext(&configFlag, &outputFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Browse the TMDB movie and TV catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.outputFormat(); err != nil {
				return err
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", defaultConfigPath, "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", string(formatTable), "Output format: table, json or markdown")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed logging")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDetailCommand(ctx))
	rootCmd.AddCommand(newHomeCommand(ctx))
	rootCmd.AddCommand(newBrowseCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
