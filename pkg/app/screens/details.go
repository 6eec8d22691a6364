package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangaverse/pkg/app/components"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
)

type DetailsScreen struct {
	manga    *data.MangaDetail
	favorite bool
	offset   int
	width    int
	height   int
	err      string
}

func NewDetailsScreen() *DetailsScreen {
	return &DetailsScreen{width: 80, height: 24}
}

func (s *DetailsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *DetailsScreen) SetPayload(p services.DetailPayload) {
	if s.manga == nil || p.Manga == nil || s.manga.ID != p.Manga.ID {
		s.offset = 0
	}
	s.manga = p.Manga
	s.favorite = p.Favorite
	s.err = ""
}

func (s *DetailsScreen) SetError(msg string) {
	s.err = msg
}

// MangaID returns the id of the shown manga, 0 when there is none.
func (s *DetailsScreen) MangaID() int {
	if s.manga == nil {
		return 0
	}
	return s.manga.ID
}

func (s *DetailsScreen) ScrollDown() {
	if s.offset < len(s.lines())-1 {
		s.offset++
	}
}

func (s *DetailsScreen) ScrollUp() {
	if s.offset > 0 {
		s.offset--
	}
}

func (s *DetailsScreen) View() string {
	if s.err != "" {
		return styles.ErrorStyle.Render("Error: " + s.err)
	}
	if s.manga == nil {
		return styles.MutedStyle.Render("Loading manga details...")
	}

	lines := s.lines()
	end := len(lines)
	if s.height > 0 && s.offset+s.height < end {
		end = s.offset + s.height
	}
	start := s.offset
	if start > end {
		start = end
	}
	return strings.Join(lines[start:end], "\n")
}

func (s *DetailsScreen) lines() []string {
	if s.manga == nil {
		return nil
	}
	m := s.manga
	width := s.width - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder

	title := styles.TitleStyle.Render(m.Title)
	if s.favorite {
		title += " " + styles.FavoriteStyle.Render("♥ Favorite")
	}
	b.WriteString(title + "\n")
	if m.TitleEnglish != "" && m.TitleEnglish != m.Title {
		b.WriteString(styles.SubtitleStyle.Render(m.TitleEnglish) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.ScoreStyle.Render("★ "+services.FormatScore(m.Score)) + " ")
	b.WriteString(components.ScoreBar(m.Score, 20) + "\n")
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%s ratings • %s members",
		services.FormatNumber(m.ScoredBy), services.FormatNumber(m.Members))) + "\n\n")

	b.WriteString(s.field("Chapters", optional(m.Chapters)))
	b.WriteString(s.field("Volumes", optional(m.Volumes)))
	b.WriteString(styles.SubtitleStyle.Render("Status: ") + styles.StatusStyle(m.Status).Render(orUnknown(m.Status)) + "\n")
	year := "Unknown"
	if y := m.Published.Year(); y > 0 {
		year = strconv.Itoa(y)
	}
	b.WriteString(s.field("Published", year))
	if m.Rating != "" {
		b.WriteString(s.field("Rating", m.Rating))
	}

	if tags := renderTags(append(append([]data.Tag{}, m.Genres...), m.Themes...)); tags != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width).Render(tags) + "\n")
	}
	if len(m.Authors) > 0 {
		names := make([]string, len(m.Authors))
		for i, a := range m.Authors {
			names[i] = a.Name
		}
		b.WriteString(s.field("Authors", strings.Join(names, ", ")))
	}

	b.WriteString("\n" + styles.SubtitleStyle.Render("Synopsis") + "\n")
	synopsis := m.Synopsis
	if synopsis == "" {
		synopsis = "No synopsis available."
	}
	b.WriteString(styles.TextStyle.Width(width).Render(synopsis) + "\n")

	if m.Background != "" {
		b.WriteString("\n" + styles.SubtitleStyle.Render("Background") + "\n")
		b.WriteString(styles.MutedStyle.Width(width).Render(m.Background) + "\n")
	}
	if m.URL != "" {
		b.WriteString("\n" + styles.MutedStyle.Render(m.URL) + "\n")
	}

	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

func (s *DetailsScreen) field(label, value string) string {
	return styles.SubtitleStyle.Render(label+": ") + styles.TextStyle.Render(value) + "\n"
}

func renderTags(tags []data.Tag) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, styles.TagStyle.Render(t.Name))
	}
	return strings.Join(parts, " ")
}

func optional(n *int) string {
	if n == nil {
		return "Unknown"
	}
	return strconv.Itoa(*n)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
