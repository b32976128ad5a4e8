package metadata

import "encoding/json"

const untitled = "Untitled"

// NormalizeList maps a raw JSON array of provider items into catalog items.
// An item's kind is its own media_type when present, otherwise
// defaultKind; items that do not resolve to movie or tv (people, unknown
// kinds) are dropped. Order is preserved. Absent or malformed input yields
// an empty slice.
func NormalizeList(raw json.RawMessage, defaultKind MediaKind) []CatalogItem {
	return normalizeElems(decodeArray(raw), defaultKind)
}

func normalizeElems(elems []json.RawMessage, defaultKind MediaKind) []CatalogItem {
	items := make([]CatalogItem, 0, len(elems))
	for _, e := range elems {
		obj, ok := decodeObject(e)
		if !ok {
			continue
		}
		r := parseRawItem(obj)

		kind := defaultKind
		if r.mediaType != "" {
			kind = MediaKind(r.mediaType)
		}
		if !kind.Valid() {
			continue
		}
		items = append(items, r.catalogItem(kind))
	}
	return items
}

// NormalizePage maps a raw list response ({results, total_pages}) into a
// ListResult. A nil or non-object payload yields EmptyList.
func NormalizePage(raw json.RawMessage, defaultKind MediaKind) ListResult {
	obj, ok := decodeObject(raw)
	if !ok {
		return EmptyList()
	}
	return ListResult{
		Results:    normalizeElems(obj.array("results"), defaultKind),
		TotalPages: obj.integer("total_pages"),
	}
}

// NormalizeDetail maps a raw detail response into a DetailRecord whose kind
// is forced to kind. Recommendations missing a kind inherit it. A nil or
// non-object payload, or an unsupported kind, yields nil.
func NormalizeDetail(raw json.RawMessage, kind MediaKind) *DetailRecord {
	if !kind.Valid() {
		return nil
	}
	obj, ok := decodeObject(raw)
	if !ok {
		return nil
	}

	d := &DetailRecord{
		CatalogItem:     parseRawItem(obj).catalogItem(kind),
		Runtime:         pickRuntime(obj),
		Tagline:         obj.str("tagline"),
		Genres:          []Genre{},
		Cast:            []CastMember{},
		Videos:          []Video{},
		Recommendations: []CatalogItem{},
	}

	for _, g := range obj.objects("genres") {
		d.Genres = append(d.Genres, Genre{ID: g.integer("id"), Name: g.str("name")})
	}

	if credits := obj.object("credits"); credits != nil {
		for _, c := range credits.objects("cast") {
			d.Cast = append(d.Cast, CastMember{
				ID:          c.integer("id"),
				Name:        c.str("name"),
				Character:   c.str("character"),
				ProfilePath: c.optStr("profile_path"),
			})
		}
	}

	if videos := obj.object("videos"); videos != nil {
		for _, v := range videos.objects("results") {
			d.Videos = append(d.Videos, Video{
				ID:   v.str("id"),
				Key:  v.str("key"),
				Name: v.str("name"),
				Site: v.str("site"),
				Type: v.str("type"),
			})
		}
	}

	if recs := obj.object("recommendations"); recs != nil {
		d.Recommendations = normalizeElems(recs.array("results"), kind)
	}

	return d
}

// pickRuntime prefers the movie runtime and falls back to the first TV
// episode runtime.
func pickRuntime(obj rawObject) int {
	if rt := obj.integer("runtime"); rt > 0 {
		return rt
	}
	if eps := obj.integers("episode_run_time"); len(eps) > 0 {
		return eps[0]
	}
	return 0
}
