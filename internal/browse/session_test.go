package browse

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marco/mediaVault/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Begin(t *testing.T) {
	g := NewGuard()

	first := g.Begin(Target{View: ViewDetail, ID: 550, Kind: metadata.KindMovie})
	assert.True(t, g.Current(first))

	second := g.Begin(Target{View: ViewDetail, ID: 1396, Kind: metadata.KindTV})
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))

	// Navigating back to the same target still supersedes older tickets
	third := g.Begin(first.Target())
	assert.False(t, g.Current(first))
	assert.True(t, g.Current(third))
	assert.Equal(t, first.Target(), g.Target())
}

func TestGuard_ConcurrentBegin(t *testing.T) {
	g := NewGuard()

	const goroutines = 100
	tickets := make([]Ticket, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			tickets[i] = g.Begin(Target{View: ViewDetail, ID: i, Kind: metadata.KindMovie})
		}(i)
	}
	wg.Wait()

	var current int
	for _, tk := range tickets {
		if g.Current(tk) {
			current++
		}
	}
	assert.Equal(t, 1, current, "exactly one ticket survives")
}

func TestSession_StaleDetailIsDropped(t *testing.T) {
	fc := &fakeCatalog{detailDelay: map[int]time.Duration{1: 80 * time.Millisecond}}
	s := NewSession(context.Background(), fc)

	var slowApplied, fastApplied atomic.Bool
	s.ShowDetail(1, metadata.KindMovie, func(*metadata.DetailRecord) { slowApplied.Store(true) })
	s.ShowDetail(2, metadata.KindTV, func(d *metadata.DetailRecord) {
		assert.Equal(t, 2, d.ID)
		assert.Equal(t, metadata.KindTV, d.MediaKind)
		fastApplied.Store(true)
	})
	s.Wait()

	assert.False(t, slowApplied.Load(), "superseded result must not be applied")
	assert.True(t, fastApplied.Load())
}

func TestSession_ListPagination(t *testing.T) {
	fc := &fakeCatalog{totalPages: 2}
	s := NewSession(context.Background(), fc)
	params := metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindMovie}

	views := make(chan ListView, 2)
	s.ShowList(params, func(v ListView) { views <- v })
	s.Wait()

	first := <-views
	assert.Equal(t, 1, first.Page)
	assert.Len(t, first.Items, 8)
	assert.True(t, first.HasMore())

	_, ok := s.LoadMore(func(v ListView) { views <- v })
	require.True(t, ok)
	s.Wait()

	second := <-views
	assert.Equal(t, 2, second.Page)
	assert.Len(t, second.Items, 16)
	assert.False(t, second.HasMore())

	_, ok = s.LoadMore(func(ListView) { t.Error("no more pages") })
	assert.False(t, ok)
}

func TestSession_LoadMoreAfterNavigatingAway(t *testing.T) {
	fc := &fakeCatalog{totalPages: 5}
	s := NewSession(context.Background(), fc)

	s.ShowList(metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindTV}, func(ListView) {})
	s.Wait()
	s.ShowDetail(7, metadata.KindTV, func(*metadata.DetailRecord) {})
	s.Wait()

	_, ok := s.LoadMore(func(ListView) { t.Error("list is no longer current") })
	assert.False(t, ok)
}

func TestSession_StaleListIsDropped(t *testing.T) {
	release := make(chan struct{})
	fc := &fakeCatalog{totalPages: 1}
	fc.listFn = func(ctx context.Context, p metadata.ListParams) metadata.ListResult {
		if p.MediaKind == metadata.KindMovie {
			<-release
		}
		return metadata.ListResult{Results: []metadata.CatalogItem{{ID: 1, Title: "x", MediaKind: p.MediaKind}}, TotalPages: 1}
	}
	s := NewSession(context.Background(), fc)

	var applied []metadata.MediaKind
	var mu sync.Mutex
	record := func(v ListView) {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, v.Params.MediaKind)
	}

	s.ShowList(metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindMovie}, record)
	s.ShowList(metadata.ListParams{Category: metadata.CategoryTopRated, MediaKind: metadata.KindTV}, record)
	close(release)
	s.Wait()

	assert.Equal(t, []metadata.MediaKind{metadata.KindTV}, applied)
}
