package main

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/marco/mediaVault/internal/browse"
	"github.com/spf13/cobra"
)

func newHomeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the featured, trending and top-rated rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ctx.outputFormat()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			catalog, _, logger, err := ctx.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			sections := browse.HomeSections()
			start := time.Now()
			var loaded int64
			results := browse.LoadSections(cmd.Context(), catalog, sections, cfg.Browse.Workers, &loaded)
			logger.Debug("home sections loaded",
				slog.Int64("sections", atomic.LoadInt64(&loaded)),
				slog.Int("workers", cfg.Browse.Workers),
				slog.Duration("duration", time.Since(start)),
			)
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			return printSections(cmd.OutOrStdout(), format, results)
		},
	}
}
