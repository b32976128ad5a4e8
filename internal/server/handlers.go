package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/marco/mediaVault/internal/browse"
	"github.com/marco/mediaVault/internal/metadata"
)

// detailResponse is a detail record plus the URLs and labels a client needs
// to render it.
type detailResponse struct {
	*metadata.DetailRecord
	PosterURL    string `json:"poster_url"`
	BackdropURL  string `json:"backdrop_url,omitempty"`
	TrailerURL   string `json:"trailer_url,omitempty"`
	RuntimeLabel string `json:"runtime_label"`
	ReleaseYear  string `json:"release_year,omitempty"`
}

type homeSection struct {
	Key     string                 `json:"key"`
	Title   string                 `json:"title"`
	Results []metadata.CatalogItem `json:"results"`
}

type homeResponse struct {
	Sections []homeSection `json:"sections"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ParseListParams reads list parameters from a query string. Missing values
// get the catalog defaults.
func ParseListParams(q map[string][]string) (metadata.ListParams, error) {
	get := func(key string) string {
		if v := q[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	p := metadata.ListParams{
		Category:   metadata.Category(get("category")),
		TimeWindow: metadata.TimeWindow(get("window")),
		Query:      get("query"),
	}

	kind := get("kind")
	if kind == "" {
		kind = string(metadata.KindMovie)
	}
	k, err := metadata.ParseMediaKind(kind)
	if err != nil {
		return p, err
	}
	p.MediaKind = k

	if raw := get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return p, fmt.Errorf("invalid page %q", raw)
		}
		p.Page = page
	}

	if p.Category == "" && p.Query == "" {
		p.Category = metadata.CategoryTrending
	}

	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	p, err := ParseListParams(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	result := s.current().catalog.FetchList(r.Context(), p)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	kind, err := metadata.ParseMediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, errors.New("invalid id"))
		return
	}

	b := s.current()
	detail := b.catalog.FetchDetail(r.Context(), id, kind)
	if detail == nil {
		writeNotFound(w)
		return
	}

	resp := detailResponse{
		DetailRecord: detail,
		PosterURL:    b.assets.PosterURL(detail.PosterPath),
		BackdropURL:  b.assets.BackdropURL(detail.BackdropPath),
		RuntimeLabel: metadata.RuntimeLabel(detail),
		ReleaseYear:  metadata.ReleaseYear(detail.ReleaseDate),
	}
	if trailer := metadata.PickTrailer(detail.Videos); trailer != nil {
		resp.TrailerURL = b.assets.TrailerURL(trailer.Key)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	results := browse.LoadSections(r.Context(), s.current().catalog, browse.HomeSections(), s.cfg.Workers, nil)

	resp := homeResponse{Sections: make([]homeSection, 0, len(results))}
	for _, res := range results {
		resp.Sections = append(resp.Sections, homeSection{
			Key:     res.Section.Key,
			Title:   res.Section.Title,
			Results: res.Result.Results,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
