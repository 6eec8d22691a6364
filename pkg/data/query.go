package data

type OrderBy string

const (
	OrderPopularity OrderBy = "popularity"
	OrderScore      OrderBy = "score"
	OrderStartDate  OrderBy = "start_date"
	OrderFavorites  OrderBy = "favorites"
)

var OrderTitles = map[OrderBy]string{
	OrderPopularity: "Most Popular",
	OrderScore:      "Top Rated",
	OrderStartDate:  "Newest",
	OrderFavorites:  "Most Favorited",
}

func (o OrderBy) Valid() bool {
	_, ok := OrderTitles[o]
	return ok
}

// ImplicitSort reports whether the API defines its own direction for this
// ordering, in which case no sort parameter is sent.
func (o OrderBy) ImplicitSort() bool {
	return o == OrderPopularity || o == OrderFavorites
}

// DefaultSort is the direction forced whenever the ordering changes.
func (o OrderBy) DefaultSort() SortDir {
	if o.ImplicitSort() {
		return SortAsc
	}
	return SortDesc
}

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

type Genre struct {
	ID   int
	Name string
}

// Genres is the browsable genre catalogue, in display order.
var Genres = []Genre{
	{1, "Action"},
	{2, "Adventure"},
	{4, "Comedy"},
	{8, "Drama"},
	{10, "Fantasy"},
	{14, "Horror"},
	{7, "Mystery"},
	{22, "Romance"},
	{24, "Sci-Fi"},
	{36, "Slice of Life"},
	{30, "Sports"},
	{37, "Supernatural"},
	{41, "Thriller"},
	{25, "Shoujo"},
	{27, "Shounen"},
	{42, "Seinen"},
	{43, "Josei"},
}

func GenreName(id int) (string, bool) {
	for _, g := range Genres {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}
