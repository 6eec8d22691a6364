package screens

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/integrations"
	"github.com/kerbaras/mangaverse/pkg/services"
)

const noticeTimeout = 2500 * time.Millisecond

// Coordinator is the part of services.Coordinator the screens drive. Every
// method but State renders through the program, so they are only called from
// commands, never from Update.
type Coordinator interface {
	Start(ctx context.Context) error
	State() services.State
	OnFilterChange(ctx context.Context, order data.OrderBy) error
	OnGenreSelect(ctx context.Context, genre int) error
	OnPageSelect(ctx context.Context, page int) error
	OnSearch(ctx context.Context, term string) error
	GoHome(ctx context.Context) error
	OnSelectItem(ctx context.Context, id int) error
	OnToggleFavorite(id int) error
	ShowFavorites()
	ShowHistory()
	OnClearHistory(confirm func() bool) error
	OnRandom(ctx context.Context) error
	Back()
	ToggleTheme() error
}

// EventMsg carries one coordinator event into the program.
type EventMsg struct {
	Event services.Event
}

type actionDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type clearNoticeMsg struct {
	seq int
}

type RootOption func(*RootScreen)

func WithExporter(e integrations.Exporter) RootOption {
	return func(r *RootScreen) { r.exporter = e }
}

func WithLogger(l *slog.Logger) RootOption {
	return func(r *RootScreen) {
		if l != nil {
			r.logger = l
		}
	}
}

type RootScreen struct {
	coord    Coordinator
	exporter integrations.Exporter
	ctx      context.Context
	logger   *slog.Logger

	view      services.View
	home      *ListScreen
	search    *ListScreen
	favorites *LibraryScreen
	history   *LibraryScreen
	details   *DetailsScreen
	searchBar *SearchBar

	spinner    spinner.Model
	pending    int
	notice     string
	noticeErr  bool
	noticeSeq  int
	confirming bool

	width  int
	height int
}

func NewRootScreen(ctx context.Context, coord Coordinator, opts ...RootOption) *RootScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	r := &RootScreen{
		coord:     coord,
		ctx:       ctx,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		view:      services.ViewHome,
		home:      NewListScreen("No manga found"),
		search:    NewListScreen("No results found. Try a different search term."),
		favorites: NewLibraryScreen(true),
		history:   NewLibraryScreen(false),
		details:   NewDetailsScreen(),
		searchBar: NewSearchBar(),
		spinner:   sp,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run executes fn off the update loop with the spinner going.
func (r *RootScreen) run(fn func(ctx context.Context) error) tea.Cmd {
	r.pending++
	return tea.Batch(r.spinner.Tick, func() tea.Msg {
		return actionDoneMsg{err: fn(r.ctx)}
	})
}

func (r *RootScreen) Init() tea.Cmd {
	return r.run(r.coord.Start)
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.resize(msg.Width, msg.Height)
		return r, nil

	case EventMsg:
		return r, r.apply(msg.Event)

	case actionDoneMsg:
		if r.pending > 0 {
			r.pending--
		}
		return r, r.done(msg.err)

	case exportDoneMsg:
		if r.pending > 0 {
			r.pending--
		}
		if msg.err != nil {
			r.logger.Error("export failed", "error", msg.err)
			return r, r.setNotice("Export failed: "+msg.err.Error(), true)
		}
		return r, r.setNotice("Favorites exported to "+msg.path, false)

	case clearNoticeMsg:
		if msg.seq == r.noticeSeq {
			r.notice = ""
			r.noticeErr = false
		}
		return r, nil

	case spinner.TickMsg:
		if r.pending == 0 {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd

	case tea.KeyMsg:
		return r, r.handleKey(msg)
	}

	if r.searchBar.Focused() {
		return r, r.searchBar.Update(msg)
	}
	return r, nil
}

func (r *RootScreen) done(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrSuperseded), errors.Is(err, services.ErrEmptyQuery):
		return nil
	case errors.Is(err, services.ErrNoSelection):
		return r.setNotice("Open a manga first", true)
	}
	// the coordinator already rendered fetch failures, only log them here
	r.logger.Debug("action finished with error", "error", err)
	return nil
}

func (r *RootScreen) apply(e services.Event) tea.Cmd {
	switch p := e.Payload.(type) {
	case services.ListPayload:
		r.view = e.View
		if e.View == services.ViewSearch {
			r.search.SetPayload(p)
		} else {
			r.home.SetPayload(p)
		}
	case services.TrendingPayload:
		r.home.SetTrending(p.Items)
	case services.DetailPayload:
		r.view = services.ViewDetail
		r.details.SetPayload(p)
	case services.CollectionPayload:
		r.view = e.View
		if e.View == services.ViewHistory {
			r.history.SetPayload(p)
		} else {
			r.favorites.SetPayload(p)
		}
	case services.FailurePayload:
		switch e.View {
		case services.ViewSearch:
			r.search.SetError(p.Message)
		case services.ViewHome:
			r.home.SetError(p.Message)
		}
		return r.setNotice(p.Message, true)
	case services.NoticePayload:
		return r.setNotice(p.Message, false)
	case services.ThemePayload:
		styles.Use(p.Theme)
	}
	return nil
}

func (r *RootScreen) setNotice(msg string, isErr bool) tea.Cmd {
	r.noticeSeq++
	r.notice = msg
	r.noticeErr = isErr
	seq := r.noticeSeq
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

func (r *RootScreen) resize(width, height int) {
	r.width = width
	r.height = height
	body := height - 8
	if body < 5 {
		body = 5
	}
	r.home.SetSize(width, body-4)
	r.search.SetSize(width, body)
	r.favorites.SetSize(width, body)
	r.history.SetSize(width, body)
	r.details.SetSize(width, body)
	r.searchBar.SetWidth(width - 10)
}

func (r *RootScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}

	if r.searchBar.Focused() {
		switch key {
		case "enter":
			term := r.searchBar.Value()
			r.searchBar.Blur()
			return r.run(func(ctx context.Context) error { return r.coord.OnSearch(ctx, term) })
		case "esc":
			r.searchBar.Blur()
			return nil
		}
		return r.searchBar.Update(msg)
	}

	if r.confirming {
		r.confirming = false
		confirmed := key == "y" || key == "Y"
		return r.run(func(context.Context) error {
			return r.coord.OnClearHistory(func() bool { return confirmed })
		})
	}

	switch key {
	case "q":
		return tea.Quit
	case "/":
		return r.searchBar.Focus()
	case "t":
		return r.run(func(context.Context) error { return r.coord.ToggleTheme() })
	case "r":
		return r.run(r.coord.OnRandom)
	case "h":
		return r.run(r.coord.GoHome)
	case "tab":
		return r.cycleTab()
	}

	if r.view == services.ViewDetail {
		return r.handleDetailKey(key)
	}

	switch key {
	case "up", "k":
		r.cursor(-1)
	case "down", "j":
		r.cursor(1)
	case "enter":
		if m := r.selected(); m != nil {
			id := m.ID
			return r.run(func(ctx context.Context) error { return r.coord.OnSelectItem(ctx, id) })
		}
	case "1", "2", "3", "4":
		order := orderKeys[key]
		return r.run(func(ctx context.Context) error { return r.coord.OnFilterChange(ctx, order) })
	case "g":
		next := nextGenre(r.coord.State().Main.Genre)
		return r.run(func(ctx context.Context) error { return r.coord.OnGenreSelect(ctx, next) })
	case "G":
		return r.run(func(ctx context.Context) error { return r.coord.OnGenreSelect(ctx, 0) })
	case "right", "n":
		return r.turnPage(1)
	case "left", "p":
		return r.turnPage(-1)
	case "c":
		if r.view == services.ViewHistory {
			r.confirming = true
		}
	case "e":
		if r.view == services.ViewFavorites && r.exporter != nil {
			return r.export()
		}
	}
	return nil
}

func (r *RootScreen) handleDetailKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		r.details.ScrollUp()
	case "down", "j":
		r.details.ScrollDown()
	case "f":
		id := r.details.MangaID()
		return r.run(func(context.Context) error { return r.coord.OnToggleFavorite(id) })
	case "esc", "backspace":
		return r.run(func(context.Context) error {
			r.coord.Back()
			return nil
		})
	}
	return nil
}

var orderKeys = map[string]data.OrderBy{
	"1": data.OrderPopularity,
	"2": data.OrderScore,
	"3": data.OrderStartDate,
	"4": data.OrderFavorites,
}

// nextGenre cycles through the genre catalogue, wrapping to no genre.
func nextGenre(current int) int {
	for i, g := range data.Genres {
		if g.ID == current {
			if i+1 < len(data.Genres) {
				return data.Genres[i+1].ID
			}
			return 0
		}
	}
	return data.Genres[0].ID
}

func (r *RootScreen) cycleTab() tea.Cmd {
	switch r.view {
	case services.ViewFavorites:
		return r.run(func(context.Context) error {
			r.coord.ShowHistory()
			return nil
		})
	case services.ViewHistory:
		return r.run(r.coord.GoHome)
	default:
		return r.run(func(context.Context) error {
			r.coord.ShowFavorites()
			return nil
		})
	}
}

func (r *RootScreen) turnPage(delta int) tea.Cmd {
	list := r.activeList()
	if list == nil {
		return nil
	}
	if (delta > 0 && !list.HasNext()) || (delta < 0 && !list.HasPrev()) {
		return nil
	}
	page := list.Page() + delta
	return r.run(func(ctx context.Context) error { return r.coord.OnPageSelect(ctx, page) })
}

func (r *RootScreen) export() tea.Cmd {
	favorites := r.coord.State().Favorites
	r.pending++
	return tea.Batch(r.spinner.Tick, func() tea.Msg {
		path, err := r.exporter.Export(r.ctx, favorites)
		return exportDoneMsg{path: path, err: err}
	})
}

func (r *RootScreen) activeList() *ListScreen {
	switch r.view {
	case services.ViewHome:
		return r.home
	case services.ViewSearch:
		return r.search
	}
	return nil
}

func (r *RootScreen) cursor(delta int) {
	type mover interface {
		Next()
		Prev()
	}
	var m mover
	switch r.view {
	case services.ViewHome:
		m = r.home
	case services.ViewSearch:
		m = r.search
	case services.ViewFavorites:
		m = r.favorites
	case services.ViewHistory:
		m = r.history
	default:
		return
	}
	if delta > 0 {
		m.Next()
	} else {
		m.Prev()
	}
}

func (r *RootScreen) selected() *data.Manga {
	switch r.view {
	case services.ViewHome:
		return r.home.Selected()
	case services.ViewSearch:
		return r.search.Selected()
	case services.ViewFavorites:
		return r.favorites.Selected()
	case services.ViewHistory:
		return r.history.Selected()
	}
	return nil
}

func (r *RootScreen) View() string {
	var b strings.Builder

	b.WriteString(r.renderHeader())
	b.WriteString("\n\n")

	switch r.view {
	case services.ViewSearch:
		b.WriteString(r.search.View())
	case services.ViewDetail:
		b.WriteString(r.details.View())
	case services.ViewFavorites:
		b.WriteString(r.favorites.View())
	case services.ViewHistory:
		b.WriteString(r.history.View())
	default:
		b.WriteString(r.home.View())
	}

	b.WriteString("\n")
	b.WriteString(r.renderStatus())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render(r.help()))
	return b.String()
}

func (r *RootScreen) renderHeader() string {
	if r.view == services.ViewDetail {
		return styles.MutedStyle.Render("← esc to go back")
	}

	tabs := []struct {
		label string
		views []services.View
	}{
		{"Browse", []services.View{services.ViewHome, services.ViewSearch}},
		{"Favorites", []services.View{services.ViewFavorites}},
		{"History", []services.View{services.ViewHistory}},
	}
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := styles.InactiveTabStyle
		for _, v := range t.views {
			if v == r.view {
				style = styles.ActiveTabStyle
			}
		}
		rendered = append(rendered, style.Render(t.label))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.JoinVertical(lipgloss.Left, header, r.searchBar.View())
}

func (r *RootScreen) renderStatus() string {
	switch {
	case r.confirming:
		return styles.ErrorStyle.Render("Clear all reading history? (y/n)")
	case r.notice != "" && r.noticeErr:
		return styles.ErrorStyle.Render(r.notice)
	case r.notice != "":
		return styles.NoticeStyle.Render(r.notice)
	case r.pending > 0:
		return r.spinner.View() + " Loading..."
	}
	return ""
}

func (r *RootScreen) help() string {
	switch r.view {
	case services.ViewDetail:
		return "↑/↓: scroll • f: favorite • r: random • t: theme • esc: back • q: quit"
	case services.ViewFavorites:
		h := "↑/↓: navigate • enter: open • tab: history"
		if r.exporter != nil {
			h += " • e: export"
		}
		return h + " • q: quit"
	case services.ViewHistory:
		return "↑/↓: navigate • enter: open • c: clear • tab: browse • q: quit"
	}
	return "↑/↓: navigate • enter: open • /: search • 1-4: order • g/G: genre • ←/→: page • r: random • t: theme • tab: favorites • q: quit"
}
