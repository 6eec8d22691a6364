package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangaverse/pkg/app/components"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
)

// ListScreen shows the main list or the search results.
type ListScreen struct {
	mangaList *components.MangaList
	payload   services.ListPayload
	trending  []data.Manga
	loaded    bool
	err       string
	width     int
}

func NewListScreen(emptyMessage string) *ListScreen {
	list := components.NewMangaList()
	list.EmptyMessage = emptyMessage
	return &ListScreen{mangaList: list}
}

func (s *ListScreen) SetSize(width, height int) {
	s.width = width
	s.mangaList.Width = width
	s.mangaList.Height = height
}

func (s *ListScreen) SetPayload(p services.ListPayload) {
	s.payload = p
	s.loaded = true
	s.err = ""

	items := make([]components.MangaListItem, len(p.Items))
	for i, m := range p.Items {
		items[i] = components.MangaListItem{Manga: m, Favorite: p.Favorites[m.ID]}
	}
	s.mangaList.SelectedIndex = 0
	s.mangaList.SetItems(items)
}

func (s *ListScreen) SetTrending(items []data.Manga) {
	s.trending = items
}

func (s *ListScreen) SetError(msg string) {
	s.err = msg
}

func (s *ListScreen) Next()     { s.mangaList.Next() }
func (s *ListScreen) Prev()     { s.mangaList.Prev() }
func (s *ListScreen) Page() int { return s.payload.Page }

func (s *ListScreen) HasNext() bool { return s.payload.HasNext }
func (s *ListScreen) HasPrev() bool { return s.payload.HasPrev }

func (s *ListScreen) Selected() *data.Manga {
	if item := s.mangaList.Selected(); item != nil {
		return &item.Manga
	}
	return nil
}

func (s *ListScreen) View() string {
	if !s.loaded && s.err == "" {
		return styles.MutedStyle.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(s.payload.Title))
	b.WriteString("\n")

	if len(s.trending) > 0 {
		b.WriteString(s.renderTrending())
		b.WriteString("\n")
	}
	if s.err != "" {
		b.WriteString(styles.ErrorStyle.Render("Oops! Something went wrong. " + s.err))
		b.WriteString("\n")
	}

	b.WriteString(s.mangaList.View())
	b.WriteString("\n")
	if pages := components.Pagination(s.payload); pages != "" {
		b.WriteString(pages)
	}
	return b.String()
}

func (s *ListScreen) renderTrending() string {
	parts := []string{styles.SubtitleStyle.Render("Trending:")}
	for _, m := range s.trending {
		parts = append(parts, styles.TagStyle.Render(fmt.Sprintf("%s ★%s", m.Title, services.FormatScore(m.Score))))
	}
	return lipgloss.NewStyle().Width(s.width).Render(strings.Join(parts, " "))
}
