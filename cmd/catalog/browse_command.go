package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/marco/mediaVault/internal/browse"
	"github.com/marco/mediaVault/internal/metadata"
	"github.com/marco/mediaVault/internal/writer"
	"github.com/spf13/cobra"
)

const browseHelp = `Commands:
  home                          featured, trending and top-rated rows
  trending [movie|tv] [day|week]
  top [movie|tv]
  search <movie|tv> <query>
  more                          load the next page of the current list
  open <n>                      show details for item n of the last listing
  detail <movie|tv> <id>
  help
  quit`

var errQuit = errors.New("quit")

// browser drives a Session from text commands. Each command waits for its
// fetch before the next line is read.
type browser struct {
	ctx     context.Context
	session *browse.Session
	catalog browse.Catalog
	assets  metadata.Assets
	md      *writer.MarkdownWriter
	format  outputFormat
	workers int

	mu    sync.Mutex
	out   io.Writer
	shown []metadata.CatalogItem
}

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse lists and details",
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
			catalog, assets, _, err := ctx.catalog(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			b := &browser{
				ctx:     cmd.Context(),
				session: browse.NewSession(cmd.Context(), catalog),
				catalog: catalog,
				assets:  assets,
				md:      writer.NewMarkdownWriter("", assets),
				format:  format,
				workers: cfg.Browse.Workers,
				out:     cmd.OutOrStdout(),
			}
			return b.run(cmd.InOrStdin())
		},
	}
}

func (b *browser) run(in io.Reader) error {
	fmt.Fprintln(b.out, browseHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(b.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			b.session.Wait()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := b.exec(strings.Fields(line)); err != nil {
			if errors.Is(err, errQuit) {
				b.session.Wait()
				return nil
			}
			fmt.Fprintf(b.out, "error: %v\n", err)
		}
		b.session.Wait()
	}
}

func (b *browser) exec(fields []string) error {
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		fmt.Fprintln(b.out, browseHelp)
		return nil
	case "home":
		b.session.Guard().Begin(browse.Target{View: browse.ViewHome})
		results := browse.LoadSections(b.ctx, b.catalog, browse.HomeSections(), b.workers, nil)
		var items []metadata.CatalogItem
		for _, r := range results {
			items = append(items, r.Result.Results...)
		}
		b.setShown(items)
		return printSections(b.out, b.format, results)
	case "trending":
		kind, rest, err := optionalKind(fields[1:])
		if err != nil {
			return err
		}
		window := metadata.WindowWeek
		if len(rest) > 0 {
			window = metadata.TimeWindow(strings.ToLower(rest[0]))
		}
		return b.showList(metadata.ListParams{Category: metadata.CategoryTrending, MediaKind: kind, TimeWindow: window})
	case "top":
		kind, _, err := optionalKind(fields[1:])
		if err != nil {
			return err
		}
		return b.showList(metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: kind})
	case "search":
		if len(fields) < 3 {
			return errors.New("usage: search <movie|tv> <query>")
		}
		kind, err := metadata.ParseMediaKind(fields[1])
		if err != nil {
			return err
		}
		return b.showList(metadata.ListParams{Category: metadata.CategorySearch, MediaKind: kind, Query: strings.Join(fields[2:], " ")})
	case "more":
		if _, ok := b.session.LoadMore(b.applyList); !ok {
			return errors.New("no more pages")
		}
		return nil
	case "open":
		if len(fields) != 2 {
			return errors.New("usage: open <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("invalid item number %q", fields[1])
		}
		item, ok := b.shownItem(n)
		if !ok {
			return fmt.Errorf("no item %d in the last listing", n)
		}
		b.session.ShowDetail(item.ID, item.MediaKind, b.applyDetail(item.MediaKind, item.ID))
		return nil
	case "detail":
		if len(fields) != 3 {
			return errors.New("usage: detail <movie|tv> <id>")
		}
		kind, err := metadata.ParseMediaKind(fields[1])
		if err != nil {
			return err
		}
		id, err := strconv.Atoi(fields[2])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q", fields[2])
		}
		b.session.ShowDetail(id, kind, b.applyDetail(kind, id))
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func (b *browser) showList(p metadata.ListParams) error {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return err
	}
	b.session.ShowList(p, b.applyList)
	return nil
}

func (b *browser) applyList(v browse.ListView) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shown = v.Items
	_ = printList(b.out, b.format, metadata.ListResult{Results: v.Items, TotalPages: v.TotalPages}, v.Page)
	if v.HasMore() {
		fmt.Fprintln(b.out, "Type 'more' for the next page.")
	}
}

func (b *browser) applyDetail(kind metadata.MediaKind, id int) func(*metadata.DetailRecord) {
	return func(d *metadata.DetailRecord) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if d == nil {
			fmt.Fprintf(b.out, "%s %d not found or could not be loaded\n", kind, id)
			return
		}
		b.shown = d.Recommendations
		_ = printDetail(b.out, b.format, b.md, b.assets, d)
	}
}

func (b *browser) setShown(items []metadata.CatalogItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shown = items
}

func (b *browser) shownItem(n int) (metadata.CatalogItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n < 1 || n > len(b.shown) {
		return metadata.CatalogItem{}, false
	}
	return b.shown[n-1], true
}

func optionalKind(args []string) (metadata.MediaKind, []string, error) {
	if len(args) == 0 {
		return metadata.KindMovie, nil, nil
	}
	kind, err := metadata.ParseMediaKind(args[0])
	if err != nil {
		return "", nil, err
	}
	return kind, args[1:], nil
}
