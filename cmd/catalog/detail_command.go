package main

import (
	"fmt"
	"strconv"

	"github.com/marco/mediaVault/internal/config"
	"github.com/marco/mediaVault/internal/metadata"
	"github.com/marco/mediaVault/internal/writer"
	"github.com/spf13/cobra"
)

func newDetailCommand(ctx *commandContext) *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:     "detail <movie|tv> <id>",
		Short:   "Show full details for a movie or TV series",
		Example: "  catalog detail movie 550\n  catalog detail tv 1396 --export ./exports",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := metadata.ParseMediaKind(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}
			format, err := ctx.outputFormat()
			if err != nil {
				return err
			}
			catalog, assets, _, err := ctx.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			detail := catalog.FetchDetail(cmd.Context(), id, kind)
			if detail == nil {
				return fmt.Errorf("%s %d not found or could not be loaded", kind, id)
			}

			dir, err := config.ExpandPath(exportDir)
			if err != nil {
				return err
			}
			md := writer.NewMarkdownWriter(dir, assets)
			if exportDir != "" {
				path, err := md.WriteFile(detail)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
				return nil
			}
			return printDetail(cmd.OutOrStdout(), format, md, assets, detail)
		},
	}

	cmd.Flags().StringVar(&exportDir, "export", "", "Write the record as a Markdown file into this directory")
	return cmd
}
