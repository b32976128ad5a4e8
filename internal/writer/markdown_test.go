package writer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marco/mediaVault/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string { return &s }

func sampleDetail() *metadata.DetailRecord {
	cast := make([]metadata.CastMember, 20)
	for i := range cast {
		cast[i] = metadata.CastMember{ID: i, Name: fmt.Sprintf("Actor %d", i)}
	}
	return &metadata.DetailRecord{
		CatalogItem: metadata.CatalogItem{
			ID:          954,
			Title:       "Mission: Impossible",
			PosterPath:  strPtr("/mi.jpg"),
			Overview:    "An American agent is framed.",
			VoteAverage: 7.0,
			ReleaseDate: "1996-05-22",
			MediaKind:   metadata.KindMovie,
		},
		Runtime: 110,
		Tagline: "Expect the impossible: again",
		Genres:  []metadata.Genre{{ID: 12, Name: "Adventure"}, {ID: 28, Name: "Action"}},
		Cast:    cast,
		Videos: []metadata.Video{
			{Key: "vimeo1", Site: "Vimeo", Type: "Trailer"},
			{Key: "tease", Site: "YouTube", Type: "Teaser"},
			{Key: "trail", Site: "YouTube", Type: "Trailer"},
		},
		Recommendations: []metadata.CatalogItem{{ID: 955, Title: "Mission: Impossible II", MediaKind: metadata.KindMovie}},
	}
}

func newTestWriter(dir string) *MarkdownWriter {
	w := NewMarkdownWriter(dir, metadata.DefaultAssets())
	w.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return w
}

func splitFrontmatter(t *testing.T, content string) (string, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(content, "---\n"))
	rest := strings.TrimPrefix(content, "---\n")
	end := strings.Index(rest, "---\n")
	require.NotEqual(t, -1, end, "closing delimiter")
	return rest[:end], rest[end+4:]
}

func TestDocument_Mapping(t *testing.T) {
	doc := newTestWriter(t.TempDir()).Document(sampleDetail())

	assert.Equal(t, "mission-impossible-1996", doc.Slug)
	assert.Equal(t, "movie", doc.MediaType)
	assert.Equal(t, 1996, doc.ReleaseYear)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/mi.jpg", doc.CoverImage)
	assert.Empty(t, doc.BackdropImage)
	assert.Equal(t, "https://www.youtube.com/embed/trail", doc.TrailerURL)
	assert.Equal(t, "110 minutes", doc.RuntimeLabel)
	assert.Equal(t, []string{"Adventure", "Action"}, doc.Genres)
	assert.Len(t, doc.Cast, metadata.TopCastSize)
	require.Len(t, doc.Related, 1)
	assert.Equal(t, 955, doc.Related[0].TMDBID)
}

func TestGenerateMarkdown_FrontmatterRoundTrips(t *testing.T) {
	doc := newTestWriter(t.TempDir()).Document(sampleDetail())

	content, err := GenerateMarkdown(doc)
	require.NoError(t, err)

	front, body := splitFrontmatter(t, content)
	assert.Contains(t, front, `title: "Mission: Impossible"`)
	assert.Contains(t, front, `tagline: "Expect the impossible: again"`)

	var parsed Document
	require.NoError(t, yaml.Unmarshal([]byte(front), &parsed))
	assert.Equal(t, doc.Title, parsed.Title)
	assert.Equal(t, doc.Tagline, parsed.Tagline)
	assert.Equal(t, doc.Cast, parsed.Cast)
	assert.True(t, doc.ExportedAt.Equal(parsed.ExportedAt))

	assert.Contains(t, body, "# Mission: Impossible (1996)")
	assert.Contains(t, body, "- **Runtime**: 110 minutes")
	assert.Contains(t, body, "[Mission: Impossible II](https://www.themoviedb.org/movie/955)")
	assert.Contains(t, body, "[View on TMDB](https://www.themoviedb.org/movie/954)")
	assert.Contains(t, body, "[Watch trailer](https://www.youtube.com/embed/trail)")
}

func TestGenerateMarkdown_SparseRecord(t *testing.T) {
	d := &metadata.DetailRecord{CatalogItem: metadata.CatalogItem{Title: "Untitled", MediaKind: metadata.KindTV}}
	var buf bytes.Buffer

	require.NoError(t, newTestWriter(t.TempDir()).Render(&buf, d))

	_, body := splitFrontmatter(t, buf.String())
	assert.Contains(t, body, "# Untitled\n")
	assert.Contains(t, body, "- **Runtime**: N/A")
	assert.NotContains(t, body, "## Synopsis")
	assert.NotContains(t, body, "## Links")
	assert.NotContains(t, body, "## Recommendations")
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := newTestWriter(dir).WriteFile(sampleDetail())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mission-impossible-1996.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		year  int
		want  string
	}{
		{"The Matrix", 1999, "the-matrix-1999"},
		{"Breaking Bad", 0, "breaking-bad"},
		{"  Amélie --- Part 2! ", 2001, "amlie-part-2-2001"},
		{"???", 0, "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.title, tt.year))
		})
	}
}

func TestForceQuotedFields(t *testing.T) {
	type pair struct {
		Title string `yaml:"title"`
		Year  int    `yaml:"year"`
	}

	var mapping yaml.Node
	require.NoError(t, mapping.Encode(pair{Title: "Alien", Year: 1979}))
	require.Equal(t, yaml.MappingNode, mapping.Kind)
	forceQuotedFields(&mapping, "title")
	out, err := yaml.Marshal(&mapping)
	require.NoError(t, err)
	assert.Equal(t, "title: \"Alien\"\nyear: 1979\n", string(out))

	wrapped := yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "title"},
			{Kind: yaml.ScalarNode, Value: "Heat"},
		},
	}}}
	forceQuotedFields(&wrapped, "title")
	assert.Equal(t, yaml.DoubleQuotedStyle, wrapped.Content[0].Content[1].Style)

	forceQuotedFields(&yaml.Node{Kind: yaml.DocumentNode})
}
