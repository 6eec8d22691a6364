package components

import (
	"strings"
	"testing"
	"time"

	"github.com/kerbaras/mangaverse/pkg/data"
)

func items(n int) []MangaListItem {
	out := make([]MangaListItem, n)
	for i := range out {
		out[i] = MangaListItem{Manga: data.Manga{ID: i + 1, Title: "Manga " + string(rune('A'+i))}}
	}
	return out
}

func TestNewMangaList(t *testing.T) {
	list := NewMangaList()

	if list == nil {
		t.Fatal("Expected manga list to be created")
	}

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}

	if len(list.Items) != 0 {
		t.Errorf("Expected 0 items, got %d", len(list.Items))
	}
}

func TestSetItemsResetsSelection(t *testing.T) {
	list := NewMangaList()

	list.SetItems(items(3))
	list.SelectedIndex = 2

	list.SetItems(items(1))

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to be reset to 0, got %d", list.SelectedIndex)
	}
}

func TestNextWraps(t *testing.T) {
	list := NewMangaList()
	list.SetItems(items(3))

	list.Next()
	list.Next()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected SelectedIndex 2, got %d", list.SelectedIndex)
	}

	list.Next()
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to wrap to 0, got %d", list.SelectedIndex)
	}
}

func TestPrevWraps(t *testing.T) {
	list := NewMangaList()
	list.SetItems(items(3))

	list.Prev()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected SelectedIndex to wrap to 2, got %d", list.SelectedIndex)
	}
}

func TestNextPrevEmptyList(t *testing.T) {
	list := NewMangaList()

	list.Next()
	list.Prev()

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to remain 0, got %d", list.SelectedIndex)
	}
	if list.Selected() != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestSelected(t *testing.T) {
	list := NewMangaList()
	list.SetItems(items(2))

	selected := list.Selected()
	if selected == nil {
		t.Fatal("Expected selected item")
	}
	if selected.Manga.ID != 1 {
		t.Errorf("Expected selected manga ID 1, got %d", selected.Manga.ID)
	}

	list.Next()
	if list.Selected().Manga.ID != 2 {
		t.Errorf("Expected selected manga ID 2, got %d", list.Selected().Manga.ID)
	}
}

func TestViewEmptyList(t *testing.T) {
	list := NewMangaList()
	list.EmptyMessage = "No favorites yet"

	view := list.View()

	if !strings.Contains(view, "No favorites yet") {
		t.Error("Expected empty message in view")
	}
}

func TestViewWithItems(t *testing.T) {
	list := NewMangaList()
	chapters := 162
	score := 9.47
	m := data.Manga{ID: 2, Title: "Berserk", Status: "Publishing", Chapters: &chapters, Score: &score}
	m.Published.Prop.From.Year = 1989

	list.SetItems([]MangaListItem{{
		Manga:    m,
		Favorite: true,
		ViewedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.Local),
	}})

	view := list.View()

	for _, want := range []string{"Berserk", "♥", "162 chapters • 1989", "★ 9.47", "#2", "viewed 2024-05-01 12:30"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view", want)
		}
	}
}

func TestViewKeepsSelectionVisible(t *testing.T) {
	list := NewMangaList()
	list.Height = 10
	list.SetItems(items(6))
	list.SelectedIndex = 5

	view := list.View()

	if !strings.Contains(view, "Manga F") {
		t.Error("Expected selected manga in view")
	}
	if strings.Contains(view, "Manga A") {
		t.Error("Expected first page of cards to be scrolled away")
	}
	if !strings.Contains(view, "5-6 of 6") {
		t.Error("Expected position indicator")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Sousou no Frieren", 10); got != "Sousou ..." {
		t.Errorf("Expected truncated title, got %q", got)
	}
	if got := truncate("Frieren", 10); got != "Frieren" {
		t.Errorf("Expected title untouched, got %q", got)
	}
}
