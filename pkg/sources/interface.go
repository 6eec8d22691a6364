package sources

import (
	"context"
	"net/url"
	"strconv"

	"github.com/kerbaras/mangaverse/pkg/data"
)

type Source interface {
	ListManga(ctx context.Context, params ListParams) (*data.Page, error)
	SearchManga(ctx context.Context, query string, page, limit int) (*data.Page, error)
	GetManga(ctx context.Context, id int) (*data.MangaDetail, error)
}

// ListParams describes a catalog list query. Zero Page, Sort and Genre are
// left out of the request.
type ListParams struct {
	Page    int
	Limit   int
	OrderBy data.OrderBy
	Sort    data.SortDir
	Genre   int
}

func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.OrderBy != "" {
		v.Set("order_by", string(p.OrderBy))
		// the API rejects an explicit direction for these orderings
		if !p.OrderBy.ImplicitSort() && p.Sort != "" {
			v.Set("sort", string(p.Sort))
		}
	}
	if p.Genre > 0 {
		v.Set("genres", strconv.Itoa(p.Genre))
	}
	return v
}
