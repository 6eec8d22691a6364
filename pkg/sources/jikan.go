package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/utils"
)

const DefaultBaseURL = "https://api.jikan.moe/v4"

// Manga is the manga object as served by Jikan.
type Manga struct {
	MalID          int            `json:"mal_id"`
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	TitleEnglish   string         `json:"title_english"`
	Images         data.Images    `json:"images"`
	Status         string         `json:"status"`
	Chapters       *int           `json:"chapters"`
	Volumes        *int           `json:"volumes"`
	Published      data.Published `json:"published"`
	Score          *float64       `json:"score"`
	ScoredBy       int            `json:"scored_by"`
	Members        int            `json:"members"`
	Synopsis       string         `json:"synopsis"`
	Background     string         `json:"background"`
	Rating         string         `json:"rating"`
	Authors        []data.Tag     `json:"authors"`
	Genres         []data.Tag     `json:"genres"`
	ExplicitGenres []data.Tag     `json:"explicit_genres"`
	Themes         []data.Tag     `json:"themes"`
}

func (m *Manga) ToManga() data.Manga {
	return data.Manga{
		ID:             m.MalID,
		Title:          m.Title,
		Images:         m.Images,
		Score:          m.Score,
		Chapters:       m.Chapters,
		Volumes:        m.Volumes,
		Status:         m.Status,
		Published:      m.Published,
		Genres:         m.Genres,
		ExplicitGenres: m.ExplicitGenres,
		Themes:         m.Themes,
		Rating:         m.Rating,
	}
}

func (m *Manga) ToDetail() *data.MangaDetail {
	return &data.MangaDetail{
		Manga:        m.ToManga(),
		TitleEnglish: m.TitleEnglish,
		Synopsis:     m.Synopsis,
		Background:   m.Background,
		Authors:      m.Authors,
		URL:          m.URL,
		ScoredBy:     m.ScoredBy,
		Members:      m.Members,
	}
}

type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
}

type listResponse struct {
	Data       []Manga    `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func (r *listResponse) toPage(requested int) *data.Page {
	items := make([]data.Manga, len(r.Data))
	for i := range r.Data {
		items[i] = r.Data[i].ToManga()
	}

	current := r.Pagination.CurrentPage
	if current < 1 {
		current = requested
	}
	if current < 1 {
		current = 1
	}
	last := r.Pagination.LastVisiblePage
	if last < 1 {
		last = 1
	}

	return &data.Page{
		Items:       items,
		CurrentPage: current,
		LastPage:    last,
		HasNextPage: r.Pagination.HasNextPage,
	}
}

// Jikan reads the unofficial MyAnimeList API.
type Jikan struct {
	api *utils.API
}

func NewJikan(baseURL string, fetcher utils.Fetcher) *Jikan {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Jikan{api: utils.NewAPI(baseURL, fetcher)}
}

func (j *Jikan) ListManga(ctx context.Context, params ListParams) (*data.Page, error) {
	var resp listResponse
	if err := j.api.Get(ctx, "/manga", params.Values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list manga: %w", err)
	}
	return resp.toPage(params.Page), nil
}

func (j *Jikan) SearchManga(ctx context.Context, query string, page, limit int) (*data.Page, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var resp listResponse
	if err := j.api.Get(ctx, "/manga", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search manga: %w", err)
	}
	return resp.toPage(page), nil
}

func (j *Jikan) GetManga(ctx context.Context, id int) (*data.MangaDetail, error) {
	var resp struct {
		Data Manga `json:"data"`
	}
	if err := j.api.Get(ctx, fmt.Sprintf("/manga/%d/full", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get manga %d: %w", id, err)
	}
	if resp.Data.MalID == 0 {
		return nil, fmt.Errorf("manga %d: empty response", id)
	}
	return resp.Data.ToDetail(), nil
}
