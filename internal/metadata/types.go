package metadata

import (
	"fmt"
	"strings"
)

// MediaKind distinguishes movie records from TV-series records.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// Valid reports whether k is one of the two supported kinds.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindTV
}

// ParseMediaKind accepts "movie" or "tv" in any case.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unsupported media kind %q (want movie or tv)", s)
	}
	return k, nil
}

// CatalogItem is a uniform movie-or-series summary.
type CatalogItem struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	PosterPath   *string   `json:"poster_path"`
	BackdropPath *string   `json:"backdrop_path"`
	Overview     string    `json:"overview"`
	VoteAverage  float64   `json:"vote_average"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	MediaKind    MediaKind `json:"media_type"`
}

// DetailRecord is a CatalogItem expanded with cast, videos, genres and
// recommendations.
type DetailRecord struct {
	CatalogItem
	// Runtime is in minutes; for TV it is the first episode runtime. Zero
	// means unknown.
	Runtime         int           `json:"runtime"`
	Tagline         string        `json:"tagline"`
	Genres          []Genre       `json:"genres"`
	Cast            []CastMember  `json:"cast"`
	Videos          []Video       `json:"videos"`
	Recommendations []CatalogItem `json:"recommendations"`
}

// Genre represents a categorical genre tag
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember represents a cast member
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
}

// Video represents a promotional video entry
type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// ListResult is one page of catalog items.
type ListResult struct {
	Results    []CatalogItem `json:"results"`
	TotalPages int           `json:"total_pages"`
}

// EmptyList is what list fetches return when nothing could be loaded.
func EmptyList() ListResult {
	return ListResult{Results: []CatalogItem{}, TotalPages: 0}
}

// HasMore reports whether pages follow page.
func (r ListResult) HasMore(page int) bool {
	return page < r.TotalPages
}
