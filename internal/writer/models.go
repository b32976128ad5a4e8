package writer

import (
	"time"
)

// Document is the frontmatter of an exported detail record
type Document struct {
	Title         string    `yaml:"title"`
	Slug          string    `yaml:"slug"`
	MediaType     string    `yaml:"mediaType"`
	Tagline       string    `yaml:"tagline,omitempty"`
	Description   string    `yaml:"description"`
	CoverImage    string    `yaml:"coverImage"`
	BackdropImage string    `yaml:"backdropImage,omitempty"`
	TrailerURL    string    `yaml:"trailerUrl,omitempty"`
	Rating        float64   `yaml:"rating"`
	ReleaseYear   int       `yaml:"releaseYear,omitempty"`
	ReleaseDate   string    `yaml:"releaseDate,omitempty"`
	Runtime       int       `yaml:"runtime"`
	RuntimeLabel  string    `yaml:"runtimeLabel"`
	Genres        []string  `yaml:"genres"`
	Cast          []string  `yaml:"cast"`
	TMDBID        int       `yaml:"tmdbId"`
	Related       []Related `yaml:"related,omitempty"`
	ExportedAt    time.Time `yaml:"exportedAt"`
}

// Related is a recommendation listed at the end of a document
type Related struct {
	Title     string `yaml:"title"`
	TMDBID    int    `yaml:"tmdbId"`
	MediaType string `yaml:"mediaType"`
}
