package screens

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangaverse/pkg/app/styles"
)

// SearchBar is the search input shown above the lists.
type SearchBar struct {
	input textinput.Model
}

func NewSearchBar() *SearchBar {
	ti := textinput.New()
	ti.Placeholder = "Search manga... (/)"
	ti.CharLimit = 100
	ti.Width = 50
	return &SearchBar{input: ti}
}

func (s *SearchBar) Focus() tea.Cmd {
	s.input.Focus()
	return textinput.Blink
}

func (s *SearchBar) Blur() {
	s.input.Blur()
}

func (s *SearchBar) Focused() bool {
	return s.input.Focused()
}

func (s *SearchBar) Value() string {
	return s.input.Value()
}

func (s *SearchBar) Reset() {
	s.input.Reset()
}

func (s *SearchBar) SetWidth(w int) {
	if w > 10 {
		s.input.Width = w
	}
}

func (s *SearchBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *SearchBar) View() string {
	style := styles.InputStyle
	if s.input.Focused() {
		style = styles.FocusedInputStyle
	}
	return style.Render(s.input.View())
}
