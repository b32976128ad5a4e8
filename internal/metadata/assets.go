package metadata

import (
	"fmt"
	"strings"
)

const (
	tmdbImageBaseURL          = "https://image.tmdb.org/t/p/"
	youtubeEmbedBaseURL       = "https://www.youtube.com/embed/"
	defaultPosterPlaceholder  = "https://placehold.co/500x750/1e293b/cbd5e1?text=No+Image"
	defaultProfilePlaceholder = "https://placehold.co/128x192/475569/cbd5e1?text=No+Pic"

	PosterSize   = "w500"
	BackdropSize = "original"
	ProfileSize  = "w185"

	// TopCastSize is how many cast members the detail views show.
	TopCastSize = 15
)

// Assets builds image and trailer URLs from provider path fragments.
type Assets struct {
	ImageBaseURL       string
	VideoBaseURL       string
	PosterPlaceholder  string
	ProfilePlaceholder string
}

// DefaultAssets points at the TMDB image CDN and YouTube embeds.
func DefaultAssets() Assets {
	return Assets{
		ImageBaseURL:       tmdbImageBaseURL,
		VideoBaseURL:       youtubeEmbedBaseURL,
		PosterPlaceholder:  defaultPosterPlaceholder,
		ProfilePlaceholder: defaultProfilePlaceholder,
	}
}

// ImageURL concatenates base, size and path; a nil or empty path yields
// placeholder.
func (a Assets) ImageURL(path *string, size, placeholder string) string {
	if path == nil || *path == "" {
		return placeholder
	}
	return a.ImageBaseURL + size + *path
}

func (a Assets) PosterURL(path *string) string {
	return a.ImageURL(path, PosterSize, a.PosterPlaceholder)
}

// BackdropURL has no placeholder; missing backdrops are simply not drawn.
func (a Assets) BackdropURL(path *string) string {
	return a.ImageURL(path, BackdropSize, "")
}

func (a Assets) ProfileURL(path *string) string {
	return a.ImageURL(path, ProfileSize, a.ProfilePlaceholder)
}

// TrailerURL returns the embed URL for a video key, or "" for an empty key.
func (a Assets) TrailerURL(key string) string {
	if key == "" {
		return ""
	}
	return a.VideoBaseURL + key
}

// PickTrailer chooses among YouTube videos: the first Trailer, else the
// first Teaser, else the first YouTube video. It returns nil when there
// is no YouTube video.
func PickTrailer(videos []Video) *Video {
	var youtube []Video
	for _, v := range videos {
		if strings.EqualFold(v.Site, "YouTube") {
			youtube = append(youtube, v)
		}
	}
	if len(youtube) == 0 {
		return nil
	}
	for _, want := range []string{"Trailer", "Teaser"} {
		for i := range youtube {
			if youtube[i].Type == want {
				return &youtube[i]
			}
		}
	}
	return &youtube[0]
}

// RuntimeLabel renders the runtime the way the detail view shows it.
func RuntimeLabel(d *DetailRecord) string {
	if d == nil || d.Runtime <= 0 {
		return "N/A"
	}
	if d.MediaKind == KindTV {
		return fmt.Sprintf("%d mins/ep", d.Runtime)
	}
	return fmt.Sprintf("%d minutes", d.Runtime)
}

// TopCast returns at most n cast members in billing order.
func TopCast(cast []CastMember, n int) []CastMember {
	if n < 0 || len(cast) <= n {
		return cast
	}
	return cast[:n]
}

// ReleaseYear returns the leading year of a YYYY-MM-DD date, or "" when the
// date does not start with four digits.
func ReleaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	for i := 0; i < 4; i++ {
		if date[i] < '0' || date[i] > '9' {
			return ""
		}
	}
	return date[:4]
}
