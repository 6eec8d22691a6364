package data

import (
	"strconv"
	"time"
)

// Tag is a genre, explicit genre, theme or author reference.
type Tag struct {
	ID   int    `json:"mal_id"`
	Name string `json:"name"`
}

type ImageSet struct {
	ImageURL      string `json:"image_url,omitempty"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// Cover returns the best jpg cover available, or "" when there is none.
func (i Images) Cover() string {
	if i.JPG.LargeImageURL != "" {
		return i.JPG.LargeImageURL
	}
	return i.JPG.ImageURL
}

type DateProp struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

// Published is the publication date range as reported by the API.
type Published struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Prop struct {
		From DateProp `json:"from"`
		To   DateProp `json:"to"`
	} `json:"prop"`
	String string `json:"string,omitempty"`
}

// Year returns the first publication year, 0 when unknown.
func (p Published) Year() int {
	if p.Prop.From.Year != 0 {
		return p.Prop.From.Year
	}
	if p.From == "" {
		return 0
	}
	if t, err := time.Parse(time.RFC3339, p.From); err == nil {
		return t.Year()
	}
	if len(p.From) >= 4 {
		if y, err := strconv.Atoi(p.From[:4]); err == nil {
			return y
		}
	}
	return 0
}

// Manga is an immutable summary snapshot of a catalog entry.
type Manga struct {
	ID             int       `json:"mal_id"`
	Title          string    `json:"title"`
	Images         Images    `json:"images"`
	Score          *float64  `json:"score,omitempty"`
	Chapters       *int      `json:"chapters,omitempty"`
	Volumes        *int      `json:"volumes,omitempty"`
	Status         string    `json:"status,omitempty"`
	Published      Published `json:"published"`
	Genres         []Tag     `json:"genres,omitempty"`
	ExplicitGenres []Tag     `json:"explicit_genres,omitempty"`
	Themes         []Tag     `json:"themes,omitempty"`
	Rating         string    `json:"rating,omitempty"`
}

// MangaDetail is the full record shown on the detail view.
type MangaDetail struct {
	Manga
	TitleEnglish string `json:"title_english,omitempty"`
	Synopsis     string `json:"synopsis,omitempty"`
	Background   string `json:"background,omitempty"`
	Authors      []Tag  `json:"authors,omitempty"`
	URL          string `json:"url,omitempty"`
	ScoredBy     int    `json:"scored_by,omitempty"`
	Members      int    `json:"members,omitempty"`
}

// Entry is the reduced projection kept in favorites and history.
type Entry struct {
	ID        int       `json:"mal_id"`
	Title     string    `json:"title"`
	Images    Images    `json:"images"`
	Chapters  *int      `json:"chapters,omitempty"`
	Status    string    `json:"status,omitempty"`
	Score     *float64  `json:"score,omitempty"`
	Published Published `json:"published"`
}

type FavoriteEntry = Entry

type HistoryEntry struct {
	Entry
	ViewedAt int64 `json:"viewedAt"`
}

// Viewed returns the capture time of the history entry.
func (h HistoryEntry) Viewed() time.Time {
	return time.UnixMilli(h.ViewedAt)
}

func NewEntry(m Manga) Entry {
	return Entry{
		ID:        m.ID,
		Title:     m.Title,
		Images:    m.Images,
		Chapters:  m.Chapters,
		Status:    m.Status,
		Score:     m.Score,
		Published: m.Published,
	}
}

// Summary widens an entry back to a Manga so collections render like lists.
func (e Entry) Summary() Manga {
	return Manga{
		ID:        e.ID,
		Title:     e.Title,
		Images:    e.Images,
		Chapters:  e.Chapters,
		Status:    e.Status,
		Score:     e.Score,
		Published: e.Published,
	}
}

// Page is one page of a list or search query.
type Page struct {
	Items       []Manga
	CurrentPage int
	LastPage    int
	HasNextPage bool
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}
