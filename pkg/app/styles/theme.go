package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/mangaverse/pkg/data"
)

// Palette is the set of colors a theme is drawn with.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Info       lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Foreground lipgloss.Color
}

var (
	Dark = Palette{
		Primary:    lipgloss.Color("#FF6B9D"),
		Secondary:  lipgloss.Color("#C792EA"),
		Success:    lipgloss.Color("#C3E88D"),
		Warning:    lipgloss.Color("#FFCB6B"),
		Error:      lipgloss.Color("#F07178"),
		Info:       lipgloss.Color("#82AAFF"),
		Muted:      lipgloss.Color("#546E7A"),
		Surface:    lipgloss.Color("#37474F"),
		Foreground: lipgloss.Color("#EEFFFF"),
	}
	Light = Palette{
		Primary:    lipgloss.Color("#D6336C"),
		Secondary:  lipgloss.Color("#7048E8"),
		Success:    lipgloss.Color("#2B8A3E"),
		Warning:    lipgloss.Color("#E67700"),
		Error:      lipgloss.Color("#C92A2A"),
		Info:       lipgloss.Color("#1971C2"),
		Muted:      lipgloss.Color("#868E96"),
		Surface:    lipgloss.Color("#E9ECEF"),
		Foreground: lipgloss.Color("#212529"),
	}
)

var (
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Current is the palette the styles below were built from.
var Current Palette

var (
	TitleStyle         lipgloss.Style
	SubtitleStyle      lipgloss.Style
	TextStyle          lipgloss.Style
	MutedStyle         lipgloss.Style
	CardStyle          lipgloss.Style
	ActiveCardStyle    lipgloss.Style
	ScoreStyle         lipgloss.Style
	FavoriteStyle      lipgloss.Style
	TagStyle           lipgloss.Style
	ErrorStyle         lipgloss.Style
	NoticeStyle        lipgloss.Style
	ActiveTabStyle     lipgloss.Style
	InactiveTabStyle   lipgloss.Style
	HelpStyle          lipgloss.Style
	InputStyle         lipgloss.Style
	FocusedInputStyle  lipgloss.Style
	PageStyle          lipgloss.Style
	ActivePageStyle    lipgloss.Style
	DisabledPageStyle  lipgloss.Style
	ProgressBarStyle   lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
)

func init() {
	Use(data.ThemeDark)
}

// Use rebuilds every style from the palette of theme.
func Use(theme data.Theme) {
	p := Dark
	if theme == data.ThemeLight {
		p = Light
	}
	Current = p

	TitleStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	SubtitleStyle = lipgloss.NewStyle().Foreground(p.Secondary).Italic(true)
	TextStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)

	CardStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(p.Secondary).
		Padding(0, 1)
	ActiveCardStyle = lipgloss.NewStyle().
		Border(ThickBorder).
		BorderForeground(p.Primary).
		Padding(0, 1)

	ScoreStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	FavoriteStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	TagStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1).
		MarginRight(1)

	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	NoticeStyle = lipgloss.NewStyle().Foreground(p.Success).Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Background(p.Surface).
		Padding(0, 2).
		Bold(true)
	InactiveTabStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true).MarginTop(1)

	InputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(p.Secondary).
		Padding(0, 1)
	FocusedInputStyle = lipgloss.NewStyle().
		Border(RoundedBorder).
		BorderForeground(p.Primary).
		Padding(0, 1)

	PageStyle = lipgloss.NewStyle().Foreground(p.Foreground).Padding(0, 1)
	ActivePageStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Background(p.Surface).
		Bold(true).
		Padding(0, 1)
	DisabledPageStyle = lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1)

	ProgressBarStyle = lipgloss.NewStyle().Foreground(p.Primary)
	ProgressEmptyStyle = lipgloss.NewStyle().Foreground(p.Muted)
}

// StatusStyle colors a publication status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "Publishing":
		return lipgloss.NewStyle().Foreground(Current.Info).Bold(true)
	case "Finished":
		return lipgloss.NewStyle().Foreground(Current.Success).Bold(true)
	case "On Hiatus", "Discontinued":
		return lipgloss.NewStyle().Foreground(Current.Warning).Bold(true)
	default:
		return MutedStyle
	}
}
