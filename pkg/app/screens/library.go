package screens

import (
	"fmt"
	"strings"

	"github.com/kerbaras/mangaverse/pkg/app/components"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
)

// LibraryScreen shows one of the persisted collections, favorites or
// history.
type LibraryScreen struct {
	mangaList *components.MangaList
	payload   services.CollectionPayload
	favorite  bool
}

func NewLibraryScreen(favorites bool) *LibraryScreen {
	list := components.NewMangaList()
	if favorites {
		list.EmptyMessage = "No favorites yet. Start adding manga to your favorites!"
	} else {
		list.EmptyMessage = "No reading history. Manga you view will appear here."
	}
	return &LibraryScreen{mangaList: list, favorite: favorites}
}

func (s *LibraryScreen) SetSize(width, height int) {
	s.mangaList.Width = width
	s.mangaList.Height = height
}

func (s *LibraryScreen) SetPayload(p services.CollectionPayload) {
	s.payload = p
	items := make([]components.MangaListItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = components.MangaListItem{Manga: it.Manga, Favorite: s.favorite, ViewedAt: it.ViewedAt}
	}
	s.mangaList.SetItems(items)
}

func (s *LibraryScreen) Next() { s.mangaList.Next() }
func (s *LibraryScreen) Prev() { s.mangaList.Prev() }

func (s *LibraryScreen) Selected() *data.Manga {
	if item := s.mangaList.Selected(); item != nil {
		return &item.Manga
	}
	return nil
}

func (s *LibraryScreen) View() string {
	var b strings.Builder
	title := s.payload.Title
	if s.favorite && s.payload.Count > 0 {
		title += fmt.Sprintf(" (%d manga)", s.payload.Count)
	}
	b.WriteString(styles.TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(s.mangaList.View())
	return b.String()
}
