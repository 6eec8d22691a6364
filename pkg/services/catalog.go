package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/safety"
	"github.com/kerbaras/mangaverse/pkg/sources"
)

const (
	ListLimit     = 24
	TrendingLimit = 10
	TrendingSize  = 8
	RandomLimit   = 25
	RandomPages   = 100
)

// Catalog issues queries against a source and strips unsafe entries from
// everything it returns.
type Catalog struct {
	source sources.Source
	logger *slog.Logger
}

func NewCatalog(source sources.Source, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{source: source, logger: logger}
}

// List returns one page of the catalog. The server's last page is passed
// through unclamped.
func (c *Catalog) List(ctx context.Context, page int, order data.OrderBy, sort data.SortDir, genre int) (*data.Page, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("unknown ordering %q", order)
	}
	result, err := c.source.ListManga(ctx, sources.ListParams{
		Page:    page,
		Limit:   ListLimit,
		OrderBy: order,
		Sort:    sort,
		Genre:   genre,
	})
	if err != nil {
		return nil, err
	}
	return c.filter(result, "list"), nil
}

// Search looks up term. Blank terms are rejected without a request.
func (c *Catalog) Search(ctx context.Context, term string, page int) (*data.Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}
	result, err := c.source.SearchManga(ctx, term, page, ListLimit)
	if err != nil {
		return nil, err
	}
	return c.filter(result, "search"), nil
}

func (c *Catalog) Detail(ctx context.Context, id int) (*data.MangaDetail, error) {
	manga, err := c.source.GetManga(ctx, id)
	if err != nil {
		return nil, err
	}
	if safety.IsUnsafe(manga.Manga) {
		c.logger.Info("blocked detail", "id", id, "rating", manga.Rating)
		return nil, fmt.Errorf("manga %d: %w", id, ErrContentBlocked)
	}
	return manga, nil
}

// Trending returns up to TrendingSize safe entries from the most popular.
func (c *Catalog) Trending(ctx context.Context) ([]data.Manga, error) {
	result, err := c.source.ListManga(ctx, sources.ListParams{
		Limit:   TrendingLimit,
		OrderBy: data.OrderPopularity,
	})
	if err != nil {
		return nil, err
	}
	items := c.filter(result, "trending").Items
	if len(items) > TrendingSize {
		items = items[:TrendingSize]
	}
	return items, nil
}

// RandomPool returns the safe entries on one page of the popularity ranking.
func (c *Catalog) RandomPool(ctx context.Context, page int) ([]data.Manga, error) {
	result, err := c.source.ListManga(ctx, sources.ListParams{
		Page:    page,
		Limit:   RandomLimit,
		OrderBy: data.OrderPopularity,
	})
	if err != nil {
		return nil, err
	}
	return c.filter(result, "random").Items, nil
}

func (c *Catalog) filter(page *data.Page, query string) *data.Page {
	safe := safety.FilterSafe(page.Items)
	if dropped := len(page.Items) - len(safe); dropped > 0 {
		c.logger.Debug("filtered unsafe manga", "query", query, "dropped", dropped)
	}
	out := *page
	out.Items = safe
	return &out
}
