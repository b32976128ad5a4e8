package main

import (
	"fmt"
	"strings"

	"github.com/marco/mediaVault/internal/metadata"
	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var category, kind, window string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a trending or top-rated list",
		Example: `  catalog list --category trending --kind tv --window day
  catalog list --category top_rated --kind movie --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := metadata.ParseMediaKind(kind)
			if err != nil {
				return err
			}
			p := metadata.ListParams{
				Category:   metadata.Category(strings.TrimSpace(category)),
				MediaKind:  k,
				TimeWindow: metadata.TimeWindow(strings.TrimSpace(window)),
				Page:       page,
			}
			return runList(cmd, ctx, p)
		},
	}

	cmd.Flags().StringVar(&category, "category", string(metadata.CategoryTrending), "List category: trending or top_rated")
	cmd.Flags().StringVarP(&kind, "kind", "k", string(metadata.KindMovie), "Media kind: movie or tv")
	cmd.Flags().StringVar(&window, "window", "", "Trending time window: day or week (default week)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var page int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies or TV series by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := metadata.ParseMediaKind(kind)
			if err != nil {
				return err
			}
			p := metadata.ListParams{
				Category:  metadata.CategorySearch,
				MediaKind: k,
				Query:     strings.Join(args, " "),
				Page:      page,
			}
			return runList(cmd, ctx, p)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(metadata.KindMovie), "Media kind: movie or tv")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	return cmd
}

func runList(cmd *cobra.Command, ctx *commandContext, p metadata.ListParams) error {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	format, err := ctx.outputFormat()
	if err != nil {
		return err
	}
	catalog, _, _, err := ctx.catalog(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	result := catalog.FetchList(cmd.Context(), p)
	if err := printList(cmd.OutOrStdout(), format, result, p.Page); err != nil {
		return fmt.Errorf("print list: %w", err)
	}
	return nil
}
