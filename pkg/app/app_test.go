package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangaverse/pkg/app/screens"
	"github.com/kerbaras/mangaverse/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererWrapsEvents(t *testing.T) {
	var sent []tea.Msg
	r := NewRenderer(func(m tea.Msg) { sent = append(sent, m) })

	ev := services.Event{View: services.ViewHome, Payload: services.NoticePayload{Message: "hi"}}
	r.Render(ev)

	require.Len(t, sent, 1)
	assert.Equal(t, screens.EventMsg{Event: ev}, sent[0])
}
