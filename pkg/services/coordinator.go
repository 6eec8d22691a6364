package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kerbaras/mangaverse/pkg/data"
)

// Store persists the user's theme and collections.
type Store interface {
	LoadTheme() (data.Theme, error)
	SaveTheme(data.Theme) error
	LoadFavorites() (data.Favorites, error)
	SaveFavorites(data.Favorites) error
	LoadHistory() (data.History, error)
	SaveHistory(data.History) error
}

// QueryState is the paginated query behind the main list or the search
// results. It is rebuilt whenever anything but the page changes.
type QueryState struct {
	Page       int
	TotalPages int
	Order      data.OrderBy
	Sort       data.SortDir
	Genre      int
	Query      string
}

// State is everything the coordinator knows about the session.
type State struct {
	View      View
	Main      QueryState
	Search    QueryState
	Current   *data.MangaDetail
	Favorites data.Favorites
	History   data.History
	Theme     data.Theme

	back View
}

func (s State) clone() State {
	s.Favorites = slices.Clone(s.Favorites)
	s.History = slices.Clone(s.History)
	return s
}

// Coordinator owns the navigation state, turns user actions into catalog
// queries and store writes, and hands the outcome to a Renderer.
//
// Every action that fetches bumps a generation counter; a response is only
// applied when no newer action started while it was in flight.
type Coordinator struct {
	catalog *Catalog
	store   Store
	logger  *slog.Logger
	now     func() time.Time
	intn    func(n int) int

	renderMu sync.Mutex
	renderer Renderer

	mu         sync.Mutex
	state      State
	generation uint64
	lastList   *Event
}

type CoordinatorOption func(*Coordinator)

func WithRenderer(r Renderer) CoordinatorOption {
	return func(c *Coordinator) { c.renderer = r }
}

func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithNow(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

// WithRandom replaces the source of the random page and pick, fn must return
// a value in [0, n).
func WithRandom(fn func(n int) int) CoordinatorOption {
	return func(c *Coordinator) { c.intn = fn }
}

func NewCoordinator(catalog *Catalog, store Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		catalog:  catalog,
		store:    store,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		intn:     rand.IntN,
		renderer: discardRenderer{},
		state: State{
			View:      ViewHome,
			Main:      newMainQuery(data.OrderPopularity, 0),
			Favorites: data.Favorites{},
			History:   data.History{},
			Theme:     data.ThemeDark,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newMainQuery(order data.OrderBy, genre int) QueryState {
	return QueryState{Page: 1, TotalPages: 1, Order: order, Sort: order.DefaultSort(), Genre: genre}
}

// SetRenderer swaps the render target.
func (c *Coordinator) SetRenderer(r Renderer) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if r == nil {
		r = discardRenderer{}
	}
	c.renderer = r
}

// State returns a snapshot of the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Coordinator) emit(events ...Event) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	for _, e := range events {
		c.renderer.Render(e)
	}
}

// begin starts a new generation; must be called with mu held.
func (c *Coordinator) begin() uint64 {
	c.generation++
	return c.generation
}

// fail logs err, as a warning when retrying later may help, and renders the
// failure on view.
func (c *Coordinator) fail(view View, msg string, err error, args ...any) {
	transient := IsTransient(err)
	level := slog.LevelError
	if transient {
		level = slog.LevelWarn
	}
	c.logger.Log(context.Background(), level, msg, append(args, "error", err, "transient", transient)...)
	c.emit(Event{View: view, Payload: FailurePayload{Message: FailureMessage(err), Err: err}})
}

func (c *Coordinator) notice(view View, msg string) {
	c.emit(Event{View: view, Payload: NoticePayload{Message: msg}})
}

// Start restores the session, then loads the trending strip and the first
// page of the main list.
func (c *Coordinator) Start(ctx context.Context) error {
	c.Restore()
	if err := c.RefreshTrending(ctx); err != nil {
		c.logger.Warn("failed to load trending", "error", err)
	}
	return c.loadMain(ctx)
}

// Restore loads the persisted theme and collections without touching the
// network. Unreadable values fall back to their defaults.
func (c *Coordinator) Restore() {
	theme, err := c.store.LoadTheme()
	if err != nil {
		c.logger.Warn("failed to load theme", "error", err)
		theme = data.ThemeDark
	}
	favorites, err := c.store.LoadFavorites()
	if err != nil {
		c.logger.Warn("failed to load favorites", "error", err)
	}
	history, err := c.store.LoadHistory()
	if err != nil {
		c.logger.Warn("failed to load history", "error", err)
	}

	if favorites == nil {
		favorites = data.Favorites{}
	}
	if history == nil {
		history = data.History{}
	}

	c.mu.Lock()
	c.state.Theme = theme
	c.state.Favorites = favorites
	c.state.History = history
	c.mu.Unlock()

	c.logger.Info("session started", "theme", theme, "favorites", len(favorites), "history", len(history))
	c.emit(Event{View: ViewHome, Payload: ThemePayload{Theme: theme}})
}

// RefreshTrending renders the highlight strip. Nothing is rendered when it
// comes back empty.
func (c *Coordinator) RefreshTrending(ctx context.Context) error {
	items, err := c.catalog.Trending(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	c.emit(Event{View: ViewHome, Payload: TrendingPayload{Items: items}})
	return nil
}

// OnFilterChange switches the ordering of the main list. The sort direction
// follows the ordering and the page resets to 1.
func (c *Coordinator) OnFilterChange(ctx context.Context, order data.OrderBy) error {
	if !order.Valid() {
		return fmt.Errorf("unknown ordering %q", order)
	}
	c.mu.Lock()
	c.state.Main = newMainQuery(order, c.state.Main.Genre)
	c.mu.Unlock()
	return c.loadMain(ctx)
}

// OnGenreSelect filters the main list by genre, 0 clears the filter.
func (c *Coordinator) OnGenreSelect(ctx context.Context, genre int) error {
	if genre < 0 {
		return fmt.Errorf("invalid genre %d", genre)
	}
	c.mu.Lock()
	c.state.Main = newMainQuery(c.state.Main.Order, genre)
	c.mu.Unlock()
	return c.loadMain(ctx)
}

// ListPage loads the main list with all of its parameters at once. The page
// is clamped to the displayable range.
func (c *Coordinator) ListPage(ctx context.Context, order data.OrderBy, genre, page int) error {
	if !order.Valid() {
		return fmt.Errorf("unknown ordering %q", order)
	}
	q := newMainQuery(order, genre)
	q.Page = ClampPage(page, MaxDisplayPages)
	c.mu.Lock()
	c.state.Main = q
	c.mu.Unlock()
	return c.loadMain(ctx)
}

// OnPageSelect moves the visible list to page, clamped to its known total.
func (c *Coordinator) OnPageSelect(ctx context.Context, page int) error {
	c.mu.Lock()
	switch c.state.View {
	case ViewSearch:
		c.state.Search.Page = ClampPage(page, c.state.Search.TotalPages)
		c.mu.Unlock()
		return c.loadSearch(ctx)
	case ViewHome:
		c.state.Main.Page = ClampPage(page, c.state.Main.TotalPages)
		c.mu.Unlock()
		return c.loadMain(ctx)
	default:
		view := c.state.View
		c.mu.Unlock()
		return fmt.Errorf("view %s is not paginated", view)
	}
}

// OnSearch starts a new search from page 1.
func (c *Coordinator) OnSearch(ctx context.Context, term string) error {
	return c.SearchPage(ctx, term, 1)
}

func (c *Coordinator) SearchPage(ctx context.Context, term string, page int) error {
	term = strings.TrimSpace(term)
	if term == "" {
		c.logger.Debug("ignoring empty search")
		return ErrEmptyQuery
	}
	c.mu.Lock()
	c.state.Search = QueryState{Page: ClampPage(page, MaxDisplayPages), TotalPages: 1, Query: term}
	c.mu.Unlock()
	return c.loadSearch(ctx)
}

// GoHome returns to the first page of the main list and forgets the search.
func (c *Coordinator) GoHome(ctx context.Context) error {
	c.mu.Lock()
	c.state.Main.Page = 1
	c.state.Search = QueryState{}
	c.mu.Unlock()
	return c.loadMain(ctx)
}

func (c *Coordinator) loadMain(ctx context.Context) error {
	return c.load(ctx, ViewHome,
		func(s *State) *QueryState { return &s.Main },
		func(q QueryState) (*data.Page, error) {
			return c.catalog.List(ctx, q.Page, q.Order, q.Sort, q.Genre)
		},
		mainTitle,
	)
}

func (c *Coordinator) loadSearch(ctx context.Context) error {
	return c.load(ctx, ViewSearch,
		func(s *State) *QueryState { return &s.Search },
		func(q QueryState) (*data.Page, error) {
			return c.catalog.Search(ctx, q.Query, q.Page)
		},
		searchTitle,
	)
}

func (c *Coordinator) load(
	ctx context.Context,
	view View,
	query func(*State) *QueryState,
	fetch func(QueryState) (*data.Page, error),
	title func(QueryState) string,
) error {
	c.mu.Lock()
	gen := c.begin()
	q := *query(&c.state)
	c.mu.Unlock()

	page, err := fetch(q)
	if err == nil {
		// past the last page: show the last page rather than relabel an empty one
		if last := ClampPage(q.Page, ClampTotal(page.LastPage)); last != q.Page {
			c.logger.Debug("requested page out of range", "view", view, "page", q.Page, "last_page", page.LastPage)
			q.Page = last
			page, err = fetch(q)
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale response", "view", view, "page", q.Page)
		return ErrSuperseded
	}
	c.state.View = view
	if err != nil {
		c.mu.Unlock()
		c.fail(view, "failed to load manga list", err, "view", view, "page", q.Page)
		return err
	}

	live := query(&c.state)
	live.TotalPages = ClampTotal(page.LastPage)
	live.Page = ClampPage(q.Page, live.TotalPages)
	ev := Event{View: view, Payload: c.listPayload(*live, title(*live), page.Items)}
	c.lastList = &ev
	c.mu.Unlock()

	c.logger.Debug("list loaded", "view", view, "page", q.Page, "items", len(page.Items), "last_page", page.LastPage)
	c.emit(ev)
	return nil
}

// listPayload must be called with mu held.
func (c *Coordinator) listPayload(q QueryState, title string, items []data.Manga) ListPayload {
	return ListPayload{
		Title:      title,
		Query:      q.Query,
		Items:      items,
		Page:       q.Page,
		TotalPages: q.TotalPages,
		Window:     PageWindow(q.Page, q.TotalPages),
		HasPrev:    q.Page > 1,
		HasNext:    q.Page < q.TotalPages,
		Favorites:  c.favoriteSet(),
		Empty:      len(items) == 0,
	}
}

func (c *Coordinator) favoriteSet() map[int]bool {
	set := make(map[int]bool, len(c.state.Favorites))
	for _, f := range c.state.Favorites {
		set[f.ID] = true
	}
	return set
}

func mainTitle(q QueryState) string {
	title, ok := data.OrderTitles[q.Order]
	if !ok {
		title = "Manga"
	}
	if name, ok := data.GenreName(q.Genre); ok {
		title += " - " + name
	}
	return title
}

func searchTitle(q QueryState) string {
	return `Search Results for "` + q.Query + `"`
}

// OnSelectItem opens the detail view for id and records it in the history.
// Blocked or failed lookups leave the view and the open manga untouched.
func (c *Coordinator) OnSelectItem(ctx context.Context, id int) error {
	c.mu.Lock()
	gen := c.begin()
	c.mu.Unlock()

	manga, err := c.catalog.Detail(ctx, id)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale detail", "id", id)
		return ErrSuperseded
	}
	view := c.state.View
	if err != nil {
		c.mu.Unlock()
		if errors.Is(err, ErrContentBlocked) {
			c.logger.Warn("refused to open blocked manga", "id", id)
			c.notice(view, msgBlocked)
			return err
		}
		c.fail(view, "failed to load manga", err, "id", id)
		return err
	}

	history := c.state.History.Record(manga.Manga, c.now())
	saveErr := c.store.SaveHistory(history)
	if saveErr == nil {
		c.state.History = history
	}
	if view != ViewDetail {
		c.state.back = view
	}
	c.state.View = ViewDetail
	c.state.Current = manga
	ev := Event{View: ViewDetail, Payload: DetailPayload{Manga: manga, Favorite: c.state.Favorites.Contains(id)}}
	c.mu.Unlock()

	c.emit(ev)
	if saveErr != nil {
		c.logger.Error("failed to save history", "id", id, "error", saveErr)
		return fmt.Errorf("failed to save history: %w", saveErr)
	}
	return nil
}

// OnToggleFavorite adds or removes the open manga from the favorites and
// re-renders its detail view.
func (c *Coordinator) OnToggleFavorite(id int) error {
	c.mu.Lock()
	current := c.state.Current
	if current == nil || current.ID != id {
		c.mu.Unlock()
		return fmt.Errorf("toggle favorite %d: %w", id, ErrNoSelection)
	}

	favorites, added := c.state.Favorites.Toggle(current.Manga)
	if err := c.store.SaveFavorites(favorites); err != nil {
		view := c.state.View
		c.mu.Unlock()
		c.fail(view, "failed to save favorites", err, "id", id)
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	c.state.Favorites = favorites
	if c.state.View != ViewDetail {
		c.state.back = c.state.View
	}
	c.state.View = ViewDetail
	c.mu.Unlock()

	msg := "Removed from favorites"
	if added {
		msg = "Added to favorites!"
	}
	c.logger.Info("favorite toggled", "id", id, "added", added, "count", len(favorites))
	c.emit(
		Event{View: ViewDetail, Payload: NoticePayload{Message: msg}},
		Event{View: ViewDetail, Payload: DetailPayload{Manga: current, Favorite: added}},
	)
	return nil
}

func (c *Coordinator) ShowFavorites() {
	c.mu.Lock()
	c.begin()
	c.state.View = ViewFavorites
	ev := c.favoritesEvent()
	c.mu.Unlock()
	c.emit(ev)
}

func (c *Coordinator) ShowHistory() {
	c.mu.Lock()
	c.begin()
	c.state.View = ViewHistory
	ev := c.historyEvent()
	c.mu.Unlock()
	c.emit(ev)
}

func (c *Coordinator) favoritesEvent() Event {
	items := make([]CollectionItem, len(c.state.Favorites))
	for i, f := range c.state.Favorites {
		items[i] = CollectionItem{Manga: f.Summary()}
	}
	return Event{View: ViewFavorites, Payload: CollectionPayload{
		Title: "My Favorites",
		Items: items,
		Count: len(items),
		Empty: len(items) == 0,
	}}
}

func (c *Coordinator) historyEvent() Event {
	items := make([]CollectionItem, len(c.state.History))
	for i, h := range c.state.History {
		items[i] = CollectionItem{Manga: h.Summary(), ViewedAt: h.Viewed()}
	}
	return Event{View: ViewHistory, Payload: CollectionPayload{
		Title: "Reading History",
		Items: items,
		Count: len(items),
		Empty: len(items) == 0,
	}}
}

// OnClearHistory empties the history once confirm agrees. confirm is called
// without any lock held and may block on the user.
func (c *Coordinator) OnClearHistory(confirm func() bool) error {
	if confirm == nil || !confirm() {
		c.logger.Debug("clear history cancelled")
		return nil
	}

	c.mu.Lock()
	if err := c.store.SaveHistory(data.History{}); err != nil {
		view := c.state.View
		c.mu.Unlock()
		c.fail(view, "failed to clear history", err)
		return fmt.Errorf("failed to clear history: %w", err)
	}
	c.begin()
	c.state.History = data.History{}
	c.state.View = ViewHistory
	ev := c.historyEvent()
	c.mu.Unlock()

	c.logger.Info("history cleared")
	c.emit(ev, Event{View: ViewHistory, Payload: NoticePayload{Message: "History cleared"}})
	return nil
}

// OnRandom opens a random safe manga from a random page of the popularity
// ranking. An empty sample is reported, not retried.
func (c *Coordinator) OnRandom(ctx context.Context) error {
	c.mu.Lock()
	gen := c.begin()
	view := c.state.View
	c.mu.Unlock()

	page := 1 + c.intn(RandomPages)
	pool, err := c.catalog.RandomPool(ctx, page)

	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		return ErrSuperseded
	}
	if err != nil {
		c.logger.Error("failed to load random pool", "page", page, "error", err)
		c.notice(view, msgRandomError)
		return err
	}
	if len(pool) == 0 {
		c.logger.Info("random page had no safe manga", "page", page)
		c.notice(view, msgNoRandom)
		return ErrNoRandomCandidate
	}

	pick := pool[c.intn(len(pool))]
	c.logger.Debug("random pick", "page", page, "id", pick.ID)
	return c.OnSelectItem(ctx, pick.ID)
}

// Back leaves the detail view for the view it was opened from. Lists are
// re-shown from the last response, without a request.
func (c *Coordinator) Back() {
	c.mu.Lock()
	if c.state.View != ViewDetail {
		c.mu.Unlock()
		return
	}
	c.begin()
	back := c.state.back
	if back == "" {
		back = ViewHome
	}
	c.state.View = back

	var events []Event
	switch back {
	case ViewFavorites:
		events = append(events, c.favoritesEvent())
	case ViewHistory:
		events = append(events, c.historyEvent())
	default:
		if c.lastList != nil {
			ev := *c.lastList
			if p, ok := ev.Payload.(ListPayload); ok {
				p.Favorites = c.favoriteSet()
				ev.Payload = p
			}
			c.state.View = ev.View
			events = append(events, ev)
		}
	}
	c.mu.Unlock()
	c.emit(events...)
}

func (c *Coordinator) ToggleTheme() error {
	c.mu.Lock()
	theme := c.state.Theme.Toggle()
	if err := c.store.SaveTheme(theme); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("failed to save theme: %w", err)
	}
	c.state.Theme = theme
	view := c.state.View
	c.mu.Unlock()

	c.emit(Event{View: view, Payload: ThemePayload{Theme: theme}})
	return nil
}
