package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/marco/mediaVault/internal/metadata"
	"gopkg.in/yaml.v3"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedHyphen = regexp.MustCompile(`-+`)
)

// MarkdownWriter renders detail records as Markdown with YAML frontmatter
type MarkdownWriter struct {
	outDir string
	assets metadata.Assets
	now    func() time.Time
}

// NewMarkdownWriter creates a writer that resolves image and trailer URLs
// with assets and saves files under outDir.
func NewMarkdownWriter(outDir string, assets metadata.Assets) *MarkdownWriter {
	return &MarkdownWriter{
		outDir: outDir,
		assets: assets,
		now:    time.Now,
	}
}

// Document maps a detail record to its exported form
func (w *MarkdownWriter) Document(d *metadata.DetailRecord) *Document {
	year, _ := strconv.Atoi(metadata.ReleaseYear(d.ReleaseDate))

	doc := &Document{
		Title:         d.Title,
		Slug:          GenerateSlug(d.Title, year),
		MediaType:     string(d.MediaKind),
		Tagline:       d.Tagline,
		Description:   d.Overview,
		CoverImage:    w.assets.PosterURL(d.PosterPath),
		BackdropImage: w.assets.BackdropURL(d.BackdropPath),
		Rating:        d.VoteAverage,
		ReleaseYear:   year,
		ReleaseDate:   d.ReleaseDate,
		Runtime:       d.Runtime,
		RuntimeLabel:  metadata.RuntimeLabel(d),
		Genres:        make([]string, 0, len(d.Genres)),
		Cast:          make([]string, 0, metadata.TopCastSize),
		TMDBID:        d.ID,
		ExportedAt:    w.now().UTC().Truncate(time.Second),
	}
	if trailer := metadata.PickTrailer(d.Videos); trailer != nil {
		doc.TrailerURL = w.assets.TrailerURL(trailer.Key)
	}
	for _, g := range d.Genres {
		doc.Genres = append(doc.Genres, g.Name)
	}
	for _, c := range metadata.TopCast(d.Cast, metadata.TopCastSize) {
		doc.Cast = append(doc.Cast, c.Name)
	}
	for _, r := range d.Recommendations {
		doc.Related = append(doc.Related, Related{Title: r.Title, TMDBID: r.ID, MediaType: string(r.MediaKind)})
	}
	return doc
}

// WriteFile writes a detail record to <outDir>/<slug>.md and returns the path
func (w *MarkdownWriter) WriteFile(d *metadata.DetailRecord) (string, error) {
	doc := w.Document(d)

	content, err := GenerateMarkdown(doc)
	if err != nil {
		return "", fmt.Errorf("failed to generate markdown: %w", err)
	}

	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(w.outDir, doc.Slug+".md")
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}

	return filePath, nil
}

// Render writes the Markdown for d to out
func (w *MarkdownWriter) Render(out io.Writer, d *metadata.DetailRecord) error {
	content, err := GenerateMarkdown(w.Document(d))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, content)
	return err
}

// GenerateMarkdown creates Markdown content with YAML frontmatter
func GenerateMarkdown(doc *Document) (string, error) {
	var sb strings.Builder

	sb.WriteString("---\n")

	// Titles like "Mission: Impossible" would otherwise be emitted as bare
	// scalars that YAML parsers read as mappings.
	var docNode yaml.Node
	if err := docNode.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to marshal document to YAML: %w", err)
	}
	forceQuotedFields(&docNode, "title", "tagline")
	yamlData, err := yaml.Marshal(&docNode)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document to YAML: %w", err)
	}

	sb.Write(yamlData)
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s", doc.Title))
	if doc.ReleaseYear > 0 {
		sb.WriteString(fmt.Sprintf(" (%d)", doc.ReleaseYear))
	}
	sb.WriteString("\n\n")

	if doc.Tagline != "" {
		sb.WriteString(fmt.Sprintf("> %s\n\n", doc.Tagline))
	}

	if doc.Description != "" {
		sb.WriteString("## Synopsis\n\n")
		sb.WriteString(doc.Description)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Details\n\n")

	if doc.Rating > 0 {
		sb.WriteString(fmt.Sprintf("- **Rating**: %.1f/10\n", doc.Rating))
	}
	sb.WriteString(fmt.Sprintf("- **Runtime**: %s\n", doc.RuntimeLabel))

	if len(doc.Genres) > 0 {
		sb.WriteString(fmt.Sprintf("- **Genres**: %s\n", strings.Join(doc.Genres, ", ")))
	}

	if len(doc.Cast) > 0 {
		sb.WriteString(fmt.Sprintf("- **Cast**: %s\n", strings.Join(doc.Cast, ", ")))
	}

	if len(doc.Related) > 0 {
		sb.WriteString("\n## Recommendations\n\n")
		for _, r := range doc.Related {
			sb.WriteString(fmt.Sprintf("- [%s](%s)\n", r.Title, tmdbPageURL(r.MediaType, r.TMDBID)))
		}
	}

	if doc.TMDBID > 0 || doc.TrailerURL != "" {
		sb.WriteString("\n## Links\n\n")

		if doc.TMDBID > 0 {
			sb.WriteString(fmt.Sprintf("- [View on TMDB](%s)\n", tmdbPageURL(doc.MediaType, doc.TMDBID)))
		}

		if doc.TrailerURL != "" {
			sb.WriteString(fmt.Sprintf("- [Watch trailer](%s)\n", doc.TrailerURL))
		}
	}

	return sb.String(), nil
}

// GenerateSlug creates a URL-safe slug from a title and optional year
func GenerateSlug(title string, year int) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = repeatedHyphen.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		slug = "untitled"
	}
	if year > 0 {
		slug = slug + "-" + strconv.Itoa(year)
	}
	return slug
}

func tmdbPageURL(mediaType string, id int) string {
	return fmt.Sprintf("https://www.themoviedb.org/%s/%d", mediaType, id)
}

// forceQuotedFields sets DoubleQuotedStyle on the named scalar fields of a
// mapping node. Node.Encode leaves the mapping itself in the node, so a
// document wrapper is unwrapped only when present.
func forceQuotedFields(node *yaml.Node, keys ...string) {
	mapping := node
	if mapping.Kind == yaml.DocumentNode {
		if len(mapping.Content) == 0 {
			return
		}
		mapping = mapping.Content[0]
	}
	if mapping.Kind != yaml.MappingNode {
		return
	}
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if keySet[mapping.Content[i].Value] {
			mapping.Content[i+1].Style = yaml.DoubleQuotedStyle
		}
	}
}
