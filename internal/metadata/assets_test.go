package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets_ImageURLs(t *testing.T) {
	a := DefaultAssets()

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", a.PosterURL(strPtr("/abc.jpg")))
	assert.Equal(t, a.PosterPlaceholder, a.PosterURL(nil))
	assert.Equal(t, a.PosterPlaceholder, a.PosterURL(strPtr("")))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/bd.jpg", a.BackdropURL(strPtr("/bd.jpg")))
	assert.Equal(t, "", a.BackdropURL(nil))
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/p.jpg", a.ProfileURL(strPtr("/p.jpg")))
	assert.Equal(t, a.ProfilePlaceholder, a.ProfileURL(nil))
	assert.Equal(t, "https://www.youtube.com/embed/KEY", a.TrailerURL("KEY"))
	assert.Equal(t, "", a.TrailerURL(""))
}

func TestPickTrailer(t *testing.T) {
	tests := []struct {
		name    string
		videos  []Video
		wantKey string
	}{
		{"none", nil, ""},
		{"no youtube", []Video{{Key: "v", Site: "Vimeo", Type: "Trailer"}}, ""},
		{
			"trailer beats teaser",
			[]Video{
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
				{Key: "vimeo-trailer", Site: "Vimeo", Type: "Trailer"},
				{Key: "trailer", Site: "YouTube", Type: "Trailer"},
			},
			"trailer",
		},
		{
			"teaser beats featurette",
			[]Video{
				{Key: "feat", Site: "YouTube", Type: "Featurette"},
				{Key: "teaser", Site: "YouTube", Type: "Teaser"},
			},
			"teaser",
		},
		{"first youtube fallback", []Video{{Key: "clip", Site: "YouTube", Type: "Clip"}}, "clip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickTrailer(tt.videos)
			if tt.wantKey == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKey, got.Key)
		})
	}
}

func TestRuntimeLabel(t *testing.T) {
	movie := &DetailRecord{CatalogItem: CatalogItem{MediaKind: KindMovie}, Runtime: 139}
	tv := &DetailRecord{CatalogItem: CatalogItem{MediaKind: KindTV}, Runtime: 45}
	unknown := &DetailRecord{CatalogItem: CatalogItem{MediaKind: KindTV}}

	assert.Equal(t, "139 minutes", RuntimeLabel(movie))
	assert.Equal(t, "45 mins/ep", RuntimeLabel(tv))
	assert.Equal(t, "N/A", RuntimeLabel(unknown))
	assert.Equal(t, "N/A", RuntimeLabel(nil))
}

func TestTopCast(t *testing.T) {
	cast := make([]CastMember, 20)
	assert.Len(t, TopCast(cast, TopCastSize), 15)
	assert.Len(t, TopCast(cast[:3], TopCastSize), 3)
}

func TestParseMediaKind(t *testing.T) {
	k, err := ParseMediaKind(" TV ")
	require.NoError(t, err)
	assert.Equal(t, KindTV, k)

	_, err = ParseMediaKind("person")
	assert.Error(t, err)
}

func TestReleaseYear(t *testing.T) {
	assert.Equal(t, "2010", ReleaseYear("2010-07-16"))
	assert.Equal(t, "", ReleaseYear(""))
	assert.Equal(t, "1999", ReleaseYear("1999"))
	assert.Equal(t, "", ReleaseYear("199"))
	assert.Equal(t, "", ReleaseYear("TBA 2027"))
	assert.Equal(t, "", ReleaseYear("20é1-01-01"))
}
