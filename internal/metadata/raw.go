package metadata

import (
	"bytes"
	"encoding/json"
)

// rawObject is one untrusted JSON object from the provider. Fields are
// decoded one at a time so a mistyped field only loses itself.
type rawObject map[string]json.RawMessage

func decodeObject(data []byte) (rawObject, bool) {
	var obj rawObject
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (o rawObject) raw(key string) (json.RawMessage, bool) {
	v, ok := o[key]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

func (o rawObject) str(key string) string {
	v, ok := o.raw(key)
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

// optStr treats an empty string like an absent value.
func (o rawObject) optStr(key string) *string {
	s := o.str(key)
	if s == "" {
		return nil
	}
	return &s
}

func (o rawObject) number(key string) float64 {
	v, ok := o.raw(key)
	if !ok {
		return 0
	}
	var f float64
	if json.Unmarshal(v, &f) != nil {
		return 0
	}
	return f
}

func (o rawObject) integer(key string) int {
	return int(o.number(key))
}

func (o rawObject) object(key string) rawObject {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	obj, _ := decodeObject(v)
	return obj
}

// array returns the elements of an array field, or nil if the field is
// missing or not an array.
func (o rawObject) array(key string) []json.RawMessage {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	return decodeArray(v)
}

func decodeArray(data []byte) []json.RawMessage {
	var elems []json.RawMessage
	if json.Unmarshal(data, &elems) != nil {
		return nil
	}
	return elems
}

// objects returns the array elements of key that are JSON objects.
func (o rawObject) objects(key string) []rawObject {
	elems := o.array(key)
	out := make([]rawObject, 0, len(elems))
	for _, e := range elems {
		if obj, ok := decodeObject(e); ok {
			out = append(out, obj)
		}
	}
	return out
}

func (o rawObject) integers(key string) []int {
	elems := o.array(key)
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		var f float64
		if json.Unmarshal(e, &f) == nil {
			out = append(out, int(f))
		}
	}
	return out
}

// itemShape tags which provider layout a raw item follows.
type itemShape int

const (
	bareShape  itemShape = iota // neither movie nor tv fields
	movieShape                  // title / release_date
	tvShape                     // name / first_air_date
)

// rawItem holds the fields a catalog item is built from.
type rawItem struct {
	id           int
	title        string
	name         string
	releaseDate  string
	firstAirDate string
	posterPath   *string
	backdropPath *string
	overview     string
	voteAverage  float64
	mediaType    string
}

func parseRawItem(o rawObject) rawItem {
	return rawItem{
		id:           o.integer("id"),
		title:        o.str("title"),
		name:         o.str("name"),
		releaseDate:  o.str("release_date"),
		firstAirDate: o.str("first_air_date"),
		posterPath:   o.optStr("poster_path"),
		backdropPath: o.optStr("backdrop_path"),
		overview:     o.str("overview"),
		voteAverage:  o.number("vote_average"),
		mediaType:    o.str("media_type"),
	}
}

func (r rawItem) shape() itemShape {
	switch {
	case r.title != "" || r.releaseDate != "":
		return movieShape
	case r.name != "" || r.firstAirDate != "":
		return tvShape
	default:
		return bareShape
	}
}

// catalogItem maps the raw item into the uniform shape with the given kind.
func (r rawItem) catalogItem(kind MediaKind) CatalogItem {
	item := CatalogItem{
		ID:           r.id,
		PosterPath:   r.posterPath,
		BackdropPath: r.backdropPath,
		Overview:     r.overview,
		VoteAverage:  r.voteAverage,
		MediaKind:    kind,
	}

	switch r.shape() {
	case movieShape:
		item.Title = firstNonEmpty(r.title, r.name, untitled)
		item.ReleaseDate = firstNonEmpty(r.releaseDate, r.firstAirDate)
	case tvShape:
		item.Title = firstNonEmpty(r.name, untitled)
		item.ReleaseDate = r.firstAirDate
	default:
		item.Title = untitled
	}
	return item
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
