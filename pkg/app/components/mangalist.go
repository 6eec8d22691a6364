package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
)

// cardHeight is the number of lines a rendered card takes, borders included.
const cardHeight = 5

type MangaListItem struct {
	Manga    data.Manga
	Favorite bool
	// ViewedAt is set for history entries.
	ViewedAt time.Time
}

type MangaList struct {
	Items         []MangaListItem
	SelectedIndex int
	Width         int
	Height        int
	EmptyMessage  string
}

func NewMangaList() *MangaList {
	return &MangaList{
		Items:         []MangaListItem{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
		EmptyMessage:  "No manga found",
	}
}

func (m *MangaList) SetItems(items []MangaListItem) {
	m.Items = items
	if m.SelectedIndex >= len(items) && len(items) > 0 {
		m.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Next() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.Items) {
		m.SelectedIndex = 0
	}
}

func (m *MangaList) Prev() {
	if len(m.Items) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.Items) - 1
	}
}

func (m *MangaList) Selected() *MangaListItem {
	if len(m.Items) == 0 || m.SelectedIndex >= len(m.Items) {
		return nil
	}
	return &m.Items[m.SelectedIndex]
}

// visible returns the slice of items that fits Height, keeping the
// selection on screen.
func (m *MangaList) visible() (int, int) {
	perPage := m.Height / cardHeight
	if perPage < 1 {
		perPage = 1
	}
	start := m.SelectedIndex - m.SelectedIndex%perPage
	end := start + perPage
	if end > len(m.Items) {
		end = len(m.Items)
	}
	return start, end
}

func (m *MangaList) View() string {
	if len(m.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render(m.EmptyMessage)
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	start, end := m.visible()
	for i := start; i < end; i++ {
		item := m.Items[i]
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		title := styles.TitleStyle.Render(truncate(item.Manga.Title, m.Width-12))
		if item.Favorite {
			title += " " + styles.FavoriteStyle.Render("♥")
		}

		progress := styles.StatusStyle(item.Manga.Status).Render(services.FormatProgress(item.Manga))
		score := styles.ScoreStyle.Render("★ " + services.FormatScore(item.Manga.Score))
		meta := lipgloss.JoinHorizontal(lipgloss.Top, progress, "  ", score)

		footer := styles.MutedStyle.Render(fmt.Sprintf("#%d", item.Manga.ID))
		if !item.ViewedAt.IsZero() {
			footer += styles.MutedStyle.Render(" • viewed " + item.ViewedAt.Format("2006-01-02 15:04"))
		}

		cardContent := lipgloss.JoinVertical(lipgloss.Left, title, meta, footer)
		b.WriteString(cardStyle.Width(m.Width - 4).Render(cardContent))
		b.WriteString("\n")
	}

	if len(m.Items) > end-start {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.Items))))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
