package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/mangaverse/pkg/app/components"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
)

// printer renders coordinator events as plain terminal output.
type printer struct {
	out io.Writer
	err io.Writer

	mu         sync.Mutex
	reported   bool
	lastDetail int
}

func newPrinter(out, err io.Writer) *printer {
	return &printer{out: out, err: err}
}

// Reported reports whether a failure or notice was printed.
func (p *printer) Reported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reported
}

func (p *printer) Render(e services.Event) {
	switch pl := e.Payload.(type) {
	case services.ListPayload:
		p.printList(pl)
	case services.TrendingPayload:
		p.printTrending(pl)
	case services.DetailPayload:
		p.printDetail(pl)
	case services.CollectionPayload:
		p.printCollection(e.View, pl)
	case services.NoticePayload:
		p.mark()
		fmt.Fprintln(p.err, styles.NoticeStyle.Render(pl.Message))
	case services.FailurePayload:
		p.mark()
		fmt.Fprintln(p.err, styles.ErrorStyle.Render("Error: "+pl.Message))
	}
}

func (p *printer) mark() {
	p.mu.Lock()
	p.reported = true
	p.mu.Unlock()
}

var (
	purple      = lipgloss.Color("99")
	headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func (p *printer) printList(pl services.ListPayload) {
	fmt.Fprintf(p.out, "\n%s\n", styles.TitleStyle.Render(pl.Title))
	if pl.Empty {
		if pl.Query != "" {
			fmt.Fprintln(p.out, "No results found. Try a different search term.")
		} else {
			fmt.Fprintln(p.out, "No manga found.")
		}
		return
	}

	t := newTable("ID", "Title", "Score", "Progress", "")
	for _, m := range pl.Items {
		fav := ""
		if pl.Favorites[m.ID] {
			fav = "♥"
		}
		t.Row(strconv.Itoa(m.ID), truncateString(m.Title, 50), services.FormatScore(m.Score), services.FormatProgress(m), fav)
	}
	fmt.Fprintln(p.out, t)
	fmt.Fprintln(p.out, pageLine(pl))
}

// pageLine is the pagination window, the current page in brackets.
func pageLine(pl services.ListPayload) string {
	parts := make([]string, 0, len(pl.Window))
	for _, n := range pl.Window {
		switch {
		case n == services.Ellipsis:
			parts = append(parts, "…")
		case n == pl.Page:
			parts = append(parts, "["+strconv.Itoa(n)+"]")
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return fmt.Sprintf("Page %d of %d  %s", pl.Page, pl.TotalPages, strings.Join(parts, " "))
}

func (p *printer) printTrending(pl services.TrendingPayload) {
	fmt.Fprintf(p.out, "\n%s\n", styles.TitleStyle.Render("Trending"))
	t := newTable("#", "Title", "Score", "ID")
	for i, m := range pl.Items {
		t.Row(strconv.Itoa(i+1), truncateString(m.Title, 50), services.FormatScore(m.Score), strconv.Itoa(m.ID))
	}
	fmt.Fprintln(p.out, t)
}

func (p *printer) printDetail(pl services.DetailPayload) {
	m := pl.Manga
	if m == nil {
		return
	}
	// a re-render of the same manga only changes its favorite flag, which
	// the accompanying notice already reports
	p.mu.Lock()
	repeat := p.lastDetail == m.ID
	p.lastDetail = m.ID
	p.mu.Unlock()
	if repeat {
		return
	}

	title := styles.TitleStyle.Render(m.Title)
	if pl.Favorite {
		title += " " + styles.FavoriteStyle.Render("♥")
	}
	fmt.Fprintf(p.out, "\n%s\n", title)
	if m.TitleEnglish != "" && m.TitleEnglish != m.Title {
		fmt.Fprintln(p.out, styles.SubtitleStyle.Render(m.TitleEnglish))
	}
	fmt.Fprintf(p.out, "%s %s  %s ratings, %s members\n",
		styles.ScoreStyle.Render("★ "+services.FormatScore(m.Score)),
		components.ScoreBar(m.Score, 10),
		services.FormatNumber(m.ScoredBy), services.FormatNumber(m.Members))
	fmt.Fprintf(p.out, "%s  %s\n", services.FormatProgress(m.Manga), styles.StatusStyle(m.Status).Render(m.Status))

	var tags []string
	for _, g := range append(append([]data.Tag{}, m.Genres...), m.Themes...) {
		tags = append(tags, g.Name)
	}
	if len(tags) > 0 {
		fmt.Fprintln(p.out, styles.MutedStyle.Render(strings.Join(tags, ", ")))
	}
	if m.Synopsis != "" {
		fmt.Fprintf(p.out, "\n%s\n", lipgloss.NewStyle().Width(80).Render(m.Synopsis))
	}
	if m.URL != "" {
		fmt.Fprintf(p.out, "\n%s\n", styles.MutedStyle.Render(m.URL))
	}
}

func (p *printer) printCollection(view services.View, pl services.CollectionPayload) {
	fmt.Fprintf(p.out, "\n%s (%d)\n\n", styles.TitleStyle.Render(pl.Title), pl.Count)
	if pl.Empty {
		if view == services.ViewHistory {
			fmt.Fprintln(p.out, "No reading history. Manga you view will appear here.")
		} else {
			fmt.Fprintln(p.out, "No favorites yet. Use 'mangaverse favorite <id>' to add one.")
		}
		return
	}

	columns := []btable.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 40},
		{Title: "Score", Width: 6},
		{Title: "Progress", Width: 24},
	}
	if view == services.ViewHistory {
		columns = append(columns, btable.Column{Title: "Viewed", Width: 16})
	}

	rows := make([]btable.Row, 0, len(pl.Items))
	for _, it := range pl.Items {
		row := btable.Row{
			strconv.Itoa(it.Manga.ID),
			truncateString(it.Manga.Title, 38),
			services.FormatScore(it.Manga.Score),
			services.FormatProgress(it.Manga),
		}
		if view == services.ViewHistory {
			row = append(row, it.ViewedAt.Local().Format("2006-01-02 15:04"))
		}
		rows = append(rows, row)
	}

	t := btable.New(
		btable.WithColumns(columns),
		btable.WithRows(rows),
		btable.WithFocused(false),
		btable.WithHeight(len(rows)),
	)
	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	fmt.Fprintln(p.out, t.View())
}

func truncateString(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
