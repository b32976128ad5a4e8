package browse

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/marco/mediaVault/internal/metadata"
)

// ListFetcher is the part of the catalog the section loader needs.
type ListFetcher interface {
	FetchList(ctx context.Context, p metadata.ListParams) metadata.ListResult
}

// Section is one titled row of the home view.
type Section struct {
	Key    string              `json:"key"`
	Title  string              `json:"title"`
	Params metadata.ListParams `json:"-"`
	// Limit caps the number of items kept; zero keeps all.
	Limit int `json:"-"`
}

// SectionResult holds the outcome of loading a single section.
type SectionResult struct {
	Section Section             `json:"section"`
	Result  metadata.ListResult `json:"result"`
	Err     error               `json:"-"`
}

// HomeSections returns the rows of the home view: a five-item hero banner
// followed by trending and top-rated rows for movies and TV.
func HomeSections() []Section {
	return []Section{
		{
			Key:    "hero",
			Title:  "Featured Today",
			Params: metadata.ListParams{Category: metadata.CategoryTrending, MediaKind: metadata.KindMovie, TimeWindow: metadata.WindowDay},
			Limit:  5,
		},
		{
			Key:    "trending_movies",
			Title:  "Trending Movies",
			Params: metadata.ListParams{Category: metadata.CategoryTrending, MediaKind: metadata.KindMovie, TimeWindow: metadata.WindowWeek},
		},
		{
			Key:    "top_rated_tv",
			Title:  "Top Rated TV Series",
			Params: metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindTV},
		},
		{
			Key:    "trending_tv_today",
			Title:  "Trending TV Series Today",
			Params: metadata.ListParams{Category: metadata.CategoryTrending, MediaKind: metadata.KindTV, TimeWindow: metadata.WindowDay},
		},
		{
			Key:    "top_rated_movies",
			Title:  "Top Rated Movies",
			Params: metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindMovie},
		},
	}
}

type sectionJob struct {
	index   int
	section Section
}

// LoadSections fans section loading out across N workers. The loadedCount
// pointer, when non-nil, is atomically incremented after each section
// completes. Results are returned in section order. Sections not started
// before ctx is done get an empty result and ctx.Err().
func LoadSections(
	ctx context.Context,
	fetcher ListFetcher,
	sections []Section,
	workers int,
	loadedCount *int64,
) []SectionResult {
	if workers <= 0 {
		workers = 1
	}
	if loadedCount == nil {
		loadedCount = new(int64)
	}

	jobs := make(chan sectionJob, len(sections))
	out := make([]SectionResult, len(sections))

	var wg sync.WaitGroup

	// Start worker goroutines
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Check for cancellation before fetching
				if err := ctx.Err(); err != nil {
					out[job.index] = SectionResult{Section: job.section, Result: metadata.EmptyList(), Err: err}
					atomic.AddInt64(loadedCount, 1)
					continue
				}

				result := fetcher.FetchList(ctx, job.section.Params)
				if job.section.Limit > 0 && len(result.Results) > job.section.Limit {
					result.Results = result.Results[:job.section.Limit]
				}
				out[job.index] = SectionResult{Section: job.section, Result: result}
				atomic.AddInt64(loadedCount, 1)
			}
		}()
	}

	// Feed jobs
	for i, s := range sections {
		jobs <- sectionJob{index: i, section: s}
	}
	close(jobs)

	wg.Wait()
	return out
}
