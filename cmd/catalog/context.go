package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/marco/mediaVault/internal/config"
	"github.com/marco/mediaVault/internal/metadata"
)

type outputFormat string

const (
	formatTable    outputFormat = "table"
	formatJSON     outputFormat = "json"
	formatMarkdown outputFormat = "markdown"
)

type commandContext struct {
	configFlag *string
	outputFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, outputFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		outputFlag: outputFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return defaultConfigPath
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) outputFormat() (outputFormat, error) {
	if c.outputFlag == nil {
		return formatTable, nil
	}
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(*c.outputFlag))); f {
	case formatTable, formatJSON, formatMarkdown:
		return f, nil
	case "":
		return formatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or markdown)", *c.outputFlag)
	}
}

// newLogger writes text logs at level to w; debug level when --verbose is set.
func (c *commandContext) newLogger(w io.Writer, level slog.Level) *slog.Logger {
	if c.verbose != nil && *c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func assetsFromConfig(cfg *config.Config) metadata.Assets {
	return metadata.Assets{
		ImageBaseURL:       cfg.TMDB.ImageBaseURL,
		VideoBaseURL:       cfg.TMDB.VideoBaseURL,
		PosterPlaceholder:  cfg.TMDB.PosterPlaceholder,
		ProfilePlaceholder: cfg.TMDB.ProfilePlaceholder,
	}
}

func catalogFromConfig(cfg *config.Config, logger *slog.Logger) *metadata.Catalog {
	client := metadata.NewClient(metadata.ClientConfig{
		Timeout:     cfg.Retry.RequestTimeout(),
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
		MaxJitter:   cfg.Retry.MaxJitter(),
		Logger:      logger,
	})
	return metadata.NewCatalog(metadata.CatalogConfig{
		Client:      client,
		APIKey:      cfg.TMDB.APIKey,
		Language:    cfg.TMDB.Language,
		BaseURL:     cfg.TMDB.BaseURL,
		MaxAttempts: cfg.Retry.MaxAttempts,
		Logger:      logger,
	})
}

// catalog builds the catalog for a command, logging to the command's stderr.
func (c *commandContext) catalog(stderr io.Writer) (*metadata.Catalog, metadata.Assets, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, metadata.Assets{}, nil, err
	}
	logger := c.newLogger(stderr, slog.LevelWarn)
	return catalogFromConfig(cfg, logger), assetsFromConfig(cfg), logger, nil
}
