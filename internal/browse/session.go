package browse

import (
	"context"
	"sync"

	"github.com/marco/mediaVault/internal/metadata"
)

// Catalog is the fetch surface a Session drives.
type Catalog interface {
	ListFetcher
	FetchDetail(ctx context.Context, id int, kind metadata.MediaKind) *metadata.DetailRecord
}

// ListView is the accumulated state of a paginated list.
type ListView struct {
	Params     metadata.ListParams
	Items      []metadata.CatalogItem
	Page       int
	TotalPages int
}

// HasMore reports whether another page can be loaded.
func (v ListView) HasMore() bool {
	return v.Page < v.TotalPages
}

// Session runs fetches in the background for one user. Only the result of
// the latest navigation is applied; results of superseded fetches are
// dropped. Apply callbacks run on the fetching goroutine.
type Session struct {
	ctx     context.Context
	catalog Catalog
	guard   *Guard
	wg      sync.WaitGroup

	mu   sync.Mutex
	list ListView
}

// NewSession creates a session whose fetches use ctx.
func NewSession(ctx context.Context, catalog Catalog) *Session {
	return &Session{
		ctx:     ctx,
		catalog: catalog,
		guard:   NewGuard(),
	}
}

// Guard exposes the session's navigation guard.
func (s *Session) Guard() *Guard { return s.guard }

// ShowDetail navigates to a detail record. apply receives the record (nil
// when not found) only if no other navigation happened in the meantime.
func (s *Session) ShowDetail(id int, kind metadata.MediaKind, apply func(*metadata.DetailRecord)) Ticket {
	tk := s.guard.Begin(Target{View: ViewDetail, ID: id, Kind: kind})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		detail := s.catalog.FetchDetail(s.ctx, id, kind)
		if !s.guard.Current(tk) {
			return
		}
		apply(detail)
	}()
	return tk
}

// ShowList navigates to the first page of a list.
func (s *Session) ShowList(p metadata.ListParams, apply func(ListView)) Ticket {
	p = p.WithDefaults()
	p.Page = 1
	tk := s.guard.Begin(Target{View: ViewList, Kind: p.MediaKind, Params: p})
	s.fetchPage(tk, p, false, apply)
	return tk
}

// LoadMore fetches the next page of the current list and appends it. It
// returns false when the current view is not a list or it has no more pages.
func (s *Session) LoadMore(apply func(ListView)) (Ticket, bool) {
	current := s.guard.Target()
	if current.View != ViewList {
		return Ticket{}, false
	}

	s.mu.Lock()
	view := s.list
	s.mu.Unlock()
	if view.Params != current.Params || !view.HasMore() {
		return Ticket{}, false
	}

	tk := s.guard.Begin(current)
	p := view.Params
	p.Page = view.Page + 1
	s.fetchPage(tk, p, true, apply)
	return tk, true
}

func (s *Session) fetchPage(tk Ticket, p metadata.ListParams, appendItems bool, apply func(ListView)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		result := s.catalog.FetchList(s.ctx, p)

		s.mu.Lock()
		if !s.guard.Current(tk) {
			s.mu.Unlock()
			return
		}
		base := tk.Target().Params
		view := ListView{Params: base, Page: p.Page, TotalPages: result.TotalPages}
		if appendItems {
			view.Items = append(append([]metadata.CatalogItem(nil), s.list.Items...), result.Results...)
		} else {
			view.Items = result.Results
		}
		s.list = view
		s.mu.Unlock()

		apply(view)
	}()
}

// Wait blocks until every started fetch has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}
