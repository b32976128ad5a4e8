package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

const (
	tmdbAPIBaseURL     = "https://api.themoviedb.org/3"
	defaultLanguage    = "en-US"
	detailAppendFields = "credits,videos,recommendations"
)

// Category selects which list endpoint to query.
type Category string

const (
	CategoryTrending Category = "trending"
	CategoryTopRated Category = "top_rated"
	CategorySearch   Category = "search"
)

// TimeWindow is the trending window.
type TimeWindow string

const (
	WindowDay  TimeWindow = "day"
	WindowWeek TimeWindow = "week"
)

// ListParams describes a list request. A non-empty Query always selects
// the search endpoint.
type ListParams struct {
	Category   Category
	MediaKind  MediaKind
	TimeWindow TimeWindow
	Query      string
	Page       int
}

// WithDefaults fills page 1 and, for trending, the weekly window.
func (p ListParams) WithDefaults() ListParams {
	p.Query = strings.TrimSpace(p.Query)
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Category == CategoryTrending && p.TimeWindow == "" {
		p.TimeWindow = WindowWeek
	}
	return p
}

// Validate reports parameters that cannot be turned into a request.
// Call it on WithDefaults output.
func (p ListParams) Validate() error {
	if !p.MediaKind.Valid() {
		return fmt.Errorf("unsupported media kind %q", p.MediaKind)
	}
	if p.Page < 1 {
		return fmt.Errorf("page must be positive, got %d", p.Page)
	}
	if p.Query != "" {
		return nil
	}
	switch p.Category {
	case CategoryTrending:
		if p.TimeWindow != WindowDay && p.TimeWindow != WindowWeek {
			return fmt.Errorf("trending requires a time window of day or week, got %q", p.TimeWindow)
		}
	case CategoryTopRated:
	case CategorySearch:
		return errors.New("search requires a query")
	default:
		return fmt.Errorf("unsupported category %q", p.Category)
	}
	return nil
}

// Catalog builds provider URLs, fetches them through the transport and
// normalizes the result. Its fetch operations never return errors.
type Catalog struct {
	client      *Client
	apiKey      string
	language    string
	baseURL     string
	maxAttempts int
	logger      *slog.Logger
}

// CatalogConfig holds configuration for the catalog
type CatalogConfig struct {
	Client      *Client
	APIKey      string
	Language    string
	BaseURL     string
	MaxAttempts int
	Logger      *slog.Logger
}

// NewCatalog creates a catalog. A nil Client gets the default transport.
func NewCatalog(cfg CatalogConfig) *Catalog {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Client == nil {
		cfg.Client = NewClient(ClientConfig{Logger: cfg.Logger})
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = tmdbAPIBaseURL
	}
	return &Catalog{
		client:      cfg.Client,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		language:    cfg.Language,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts: cfg.MaxAttempts,
		logger:      cfg.Logger,
	}
}

func (c *Catalog) baseParams() url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	return params
}

// ListURL builds the request URL for p after applying defaults.
func (c *Catalog) ListURL(p ListParams) (string, error) {
	p = p.WithDefaults()
	if err := p.Validate(); err != nil {
		return "", err
	}

	params := c.baseParams()
	params.Set("page", strconv.Itoa(p.Page))

	switch {
	case p.Query != "":
		params.Set("query", p.Query)
		return fmt.Sprintf("%s/search/%s?%s", c.baseURL, p.MediaKind, params.Encode()), nil
	case p.Category == CategoryTrending:
		return fmt.Sprintf("%s/trending/%s/%s?%s", c.baseURL, p.MediaKind, p.TimeWindow, params.Encode()), nil
	default:
		return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, p.MediaKind, p.Category, params.Encode()), nil
	}
}

// DetailURL builds the detail request URL, embedding credits, videos and
// recommendations.
func (c *Catalog) DetailURL(id int, kind MediaKind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unsupported media kind %q", kind)
	}
	if id <= 0 {
		return "", fmt.Errorf("invalid id %d", id)
	}
	params := c.baseParams()
	params.Set("append_to_response", detailAppendFields)
	return fmt.Sprintf("%s/%s/%d?%s", c.baseURL, kind, id, params.Encode()), nil
}

// FetchList fetches and normalizes one page. Invalid parameters and
// transport failures yield EmptyList.
func (c *Catalog) FetchList(ctx context.Context, p ListParams) ListResult {
	p = p.WithDefaults()
	requestURL, err := c.ListURL(p)
	if err != nil {
		fetchFailuresTotal.WithLabelValues("list").Inc()
		c.logger.Warn("invalid list request", "category", p.Category, "media_kind", p.MediaKind, "error", err)
		return EmptyList()
	}

	data, err := c.client.GetJSON(ctx, requestURL, c.maxAttempts)
	if err != nil {
		fetchFailuresTotal.WithLabelValues("list").Inc()
		c.logger.Error("error fetching media list",
			"category", p.Category,
			"media_kind", p.MediaKind,
			"page", p.Page,
			"error", err,
		)
		return EmptyList()
	}

	result := NormalizePage(data, p.MediaKind)
	c.logger.Debug("media list fetched",
		"category", p.Category,
		"media_kind", p.MediaKind,
		"page", p.Page,
		"results", len(result.Results),
		"total_pages", result.TotalPages,
	)
	return result
}

// FetchDetail fetches and normalizes one record. The record's kind is
// always kind. Failures yield nil.
func (c *Catalog) FetchDetail(ctx context.Context, id int, kind MediaKind) *DetailRecord {
	requestURL, err := c.DetailURL(id, kind)
	if err != nil {
		fetchFailuresTotal.WithLabelValues("detail").Inc()
		c.logger.Warn("invalid detail request", "id", id, "media_kind", kind, "error", err)
		return nil
	}

	data, err := c.client.GetJSON(ctx, requestURL, c.maxAttempts)
	if err != nil {
		fetchFailuresTotal.WithLabelValues("detail").Inc()
		c.logger.Error("error fetching detail", "id", id, "media_kind", kind, "error", err)
		return nil
	}

	detail := NormalizeDetail(data, kind)
	if detail == nil {
		fetchFailuresTotal.WithLabelValues("detail").Inc()
		c.logger.Warn("detail payload unusable", "id", id, "media_kind", kind)
	}
	return detail
}
