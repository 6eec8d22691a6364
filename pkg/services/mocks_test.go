package services

import (
	"context"
	"sync"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/sources"
)

type mockSource struct {
	mu    sync.Mutex
	calls int

	listFunc   func(ctx context.Context, params sources.ListParams) (*data.Page, error)
	searchFunc func(ctx context.Context, query string, page, limit int) (*data.Page, error)
	getFunc    func(ctx context.Context, id int) (*data.MangaDetail, error)
}

func (m *mockSource) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSource) ListManga(ctx context.Context, params sources.ListParams) (*data.Page, error) {
	m.count()
	if m.listFunc != nil {
		return m.listFunc(ctx, params)
	}
	return &data.Page{Items: []data.Manga{}, CurrentPage: params.Page, LastPage: 1}, nil
}

func (m *mockSource) SearchManga(ctx context.Context, query string, page, limit int) (*data.Page, error) {
	m.count()
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, page, limit)
	}
	return &data.Page{Items: []data.Manga{}, CurrentPage: page, LastPage: 1}, nil
}

func (m *mockSource) GetManga(ctx context.Context, id int) (*data.MangaDetail, error) {
	m.count()
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &data.MangaDetail{Manga: data.Manga{ID: id, Title: "Manga"}}, nil
}

// memStore keeps the persisted values in memory and counts writes.
type memStore struct {
	theme     data.Theme
	favorites data.Favorites
	history   data.History
	writes    int
	err       error
}

func (s *memStore) LoadTheme() (data.Theme, error) {
	if s.theme == "" {
		return data.ThemeDark, nil
	}
	return s.theme, nil
}

func (s *memStore) SaveTheme(t data.Theme) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.theme = t
	return nil
}

func (s *memStore) LoadFavorites() (data.Favorites, error) { return s.favorites, nil }

func (s *memStore) SaveFavorites(f data.Favorites) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.favorites = f
	return nil
}

func (s *memStore) LoadHistory() (data.History, error) { return s.history, nil }

func (s *memStore) SaveHistory(h data.History) error {
	if s.err != nil {
		return s.err
	}
	s.writes++
	s.history = h
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Render(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}
	}
	return r.events[len(r.events)-1]
}

// Payloads returns every payload of type T in render order.
func Payloads[T any](r *recorder) []T {
	var out []T
	for _, e := range r.Events() {
		if p, ok := e.Payload.(T); ok {
			out = append(out, p)
		}
	}
	return out
}

func manga(id int, title string) data.Manga {
	return data.Manga{ID: id, Title: title, Status: "Finished"}
}

func unsafeManga(id int) data.Manga {
	return data.Manga{ID: id, Title: "blocked", Rating: "Rx"}
}

func detail(m data.Manga) *data.MangaDetail {
	return &data.MangaDetail{Manga: m, Synopsis: "..."}
}
