package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/marco/mediaVault/internal/browse"
	"github.com/marco/mediaVault/internal/metadata"
	"github.com/marco/mediaVault/internal/writer"
)

const overviewWidth = 60

// itemRows numbers rows from offset+1.
func itemRows(items []metadata.CatalogItem, offset int) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			strconv.Itoa(item.ID),
			string(item.MediaKind),
			item.Title,
			metadata.ReleaseYear(item.ReleaseDate),
			formatRating(item.VoteAverage),
		})
	}
	return rows
}

func formatRating(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderItems(w io.Writer, items []metadata.CatalogItem, offset int) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	headers := []string{"#", "ID", "Type", "Title", "Year", "Rating"}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight}
	fmt.Fprintln(w, renderTable(headers, itemRows(items, offset), aligns))
}

func renderItemsMarkdown(w io.Writer, title string, items []metadata.CatalogItem) {
	if title != "" {
		fmt.Fprintf(w, "## %s\n\n", title)
	}
	for _, item := range items {
		year := metadata.ReleaseYear(item.ReleaseDate)
		if year != "" {
			fmt.Fprintf(w, "- **%s** (%s) `%s/%d`\n", item.Title, year, item.MediaKind, item.ID)
		} else {
			fmt.Fprintf(w, "- **%s** `%s/%d`\n", item.Title, item.MediaKind, item.ID)
		}
	}
	fmt.Fprintln(w)
}

func printList(w io.Writer, format outputFormat, result metadata.ListResult, page int) error {
	switch format {
	case formatJSON:
		return writeJSON(w, result)
	case formatMarkdown:
		renderItemsMarkdown(w, "", result.Results)
	default:
		renderItems(w, result.Results, 0)
	}
	if format != formatJSON && result.TotalPages > 0 {
		fmt.Fprintf(w, "Page %d of %d\n", page, result.TotalPages)
	}
	return nil
}

func printDetail(w io.Writer, format outputFormat, md *writer.MarkdownWriter, assets metadata.Assets, d *metadata.DetailRecord) error {
	switch format {
	case formatJSON:
		return writeJSON(w, d)
	case formatMarkdown:
		return md.Render(w, d)
	}

	year := metadata.ReleaseYear(d.ReleaseDate)
	heading := d.Title
	if year != "" {
		heading = fmt.Sprintf("%s (%s)", d.Title, year)
	}
	fmt.Fprintln(w, heading)
	if d.Tagline != "" {
		fmt.Fprintf(w, "“%s”\n", d.Tagline)
	}
	fmt.Fprintln(w)

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	facts := [][]string{
		{"Type", string(d.MediaKind)},
		{"Rating", formatRating(d.VoteAverage)},
		{"Runtime", metadata.RuntimeLabel(d)},
		{"Genres", strings.Join(genres, ", ")},
		{"Poster", assets.PosterURL(d.PosterPath)},
	}
	if trailer := metadata.PickTrailer(d.Videos); trailer != nil {
		facts = append(facts, []string{"Trailer", assets.TrailerURL(trailer.Key)})
	}
	if d.Overview != "" {
		facts = append(facts, []string{"Overview", truncate(d.Overview, overviewWidth)})
	}
	fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, facts, nil))

	cast := metadata.TopCast(d.Cast, metadata.TopCastSize)
	if len(cast) > 0 {
		rows := make([][]string, 0, len(cast))
		for _, c := range cast {
			rows = append(rows, []string{c.Name, c.Character})
		}
		fmt.Fprintln(w, renderTable([]string{"Cast", "Character"}, rows, nil))
	}

	if len(d.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations")
		renderItems(w, d.Recommendations, 0)
	}
	return nil
}

func printSections(w io.Writer, format outputFormat, results []browse.SectionResult) error {
	if format == formatJSON {
		return writeJSON(w, results)
	}
	// Rows are numbered across sections so a number picks one item of the
	// whole view.
	offset := 0
	for _, r := range results {
		if format == formatMarkdown {
			renderItemsMarkdown(w, r.Section.Title, r.Result.Results)
		} else {
			fmt.Fprintln(w, r.Section.Title)
			renderItems(w, r.Result.Results, offset)
		}
		offset += len(r.Result.Results)
	}
	return nil
}
