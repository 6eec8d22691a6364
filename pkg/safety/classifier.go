// Package safety decides which catalog entries may be shown by default.
package safety

import "github.com/kerbaras/mangaverse/pkg/data"

var (
	blockedGenreIDs = map[int]bool{9: true, 12: true, 18: true, 26: true, 28: true}
	blockedThemes   = map[string]bool{"Hentai": true, "Ecchi": true}
	blockedRatings  = map[string]bool{"Rx": true, "R+": true}
)

// IsUnsafe reports whether m carries any adult signal. Absent fields never
// count as a signal.
func IsUnsafe(m data.Manga) bool {
	for _, g := range m.Genres {
		if blockedGenreIDs[g.ID] {
			return true
		}
	}
	for _, g := range m.ExplicitGenres {
		if blockedGenreIDs[g.ID] {
			return true
		}
	}
	for _, t := range m.Themes {
		if blockedThemes[t.Name] {
			return true
		}
	}
	return blockedRatings[m.Rating]
}

// FilterSafe returns the safe entries of list in their original order.
func FilterSafe(list []data.Manga) []data.Manga {
	out := make([]data.Manga, 0, len(list))
	for _, m := range list {
		if !IsUnsafe(m) {
			out = append(out, m)
		}
	}
	return out
}
