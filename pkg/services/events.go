package services

import (
	"time"

	"github.com/kerbaras/mangaverse/pkg/data"
)

type View string

const (
	ViewHome      View = "home"
	ViewSearch    View = "search"
	ViewDetail    View = "detail"
	ViewFavorites View = "favorites"
	ViewHistory   View = "history"
)

// Event is one render instruction produced by the coordinator.
type Event struct {
	View    View
	Payload any
}

// ListPayload is a page of the main list or of search results.
type ListPayload struct {
	Title      string
	Query      string
	Items      []data.Manga
	Page       int
	TotalPages int
	// Window holds the page buttons to draw, Ellipsis marks a gap.
	Window    []int
	HasPrev   bool
	HasNext   bool
	Favorites map[int]bool
	Empty     bool
}

type DetailPayload struct {
	Manga    *data.MangaDetail
	Favorite bool
}

type CollectionItem struct {
	Manga data.Manga
	// ViewedAt is zero for favorites.
	ViewedAt time.Time
}

// CollectionPayload is the favorites or history view.
type CollectionPayload struct {
	Title string
	Items []CollectionItem
	Count int
	Empty bool
}

// TrendingPayload feeds the highlight strip on the home view.
type TrendingPayload struct {
	Items []data.Manga
}

type FailurePayload struct {
	Message string
	Err     error
}

// NoticePayload is a transient message that does not change the view.
type NoticePayload struct {
	Message string
}

type ThemePayload struct {
	Theme data.Theme
}

// Renderer draws coordinator events on some target.
type Renderer interface {
	Render(Event)
}

type RendererFunc func(Event)

func (f RendererFunc) Render(e Event) { f(e) }

type discardRenderer struct{}

func (discardRenderer) Render(Event) {}
