package main

import (
	"log/slog"

	"github.com/marco/mediaVault/internal/config"
	"github.com/marco/mediaVault/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.newLogger(cmd.ErrOrStderr(), slog.LevelInfo)
			catalog, assets := catalogFromConfig(cfg, logger), assetsFromConfig(cfg)
			if listen == "" {
				listen = cfg.Server.Listen
			}

			srv := server.New(server.Config{
				Listen:             listen,
				RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
				Workers:            cfg.Browse.Workers,
				Logger:             logger,
			}, catalog, assets)

			holder := config.NewHolder(cfg, ctx.configPath(), logger)
			holder.OnReload(func(next *config.Config) {
				srv.SetCatalog(catalogFromConfig(next, logger), assetsFromConfig(next))
				logger.Info("catalog rebuilt from reloaded config")
			})
			if *cfg.Server.WatchConfig {
				if err := holder.Watch(cmd.Context()); err != nil {
					logger.Warn("config watching disabled", "error", err)
				}
			}

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}
