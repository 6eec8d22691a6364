package data

import "time"

// MaxHistory is the number of entries kept in the viewing history.
const MaxHistory = 50

// Favorites is ordered newest first and never holds an id twice.
type Favorites []FavoriteEntry

func (f Favorites) Contains(id int) bool {
	return f.index(id) >= 0
}

func (f Favorites) index(id int) int {
	for i, e := range f {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Toggle removes the manga when present, otherwise prepends it. The
// receiver is left untouched; added reports the new membership.
func (f Favorites) Toggle(m Manga) (out Favorites, added bool) {
	if i := f.index(m.ID); i >= 0 {
		out = make(Favorites, 0, len(f)-1)
		out = append(out, f[:i]...)
		return append(out, f[i+1:]...), false
	}
	out = make(Favorites, 0, len(f)+1)
	out = append(out, NewEntry(m))
	return append(out, f...), true
}

// History is ordered by descending capture time.
type History []HistoryEntry

// Record moves m to the front, stamping it with at, and evicts the oldest
// entries beyond MaxHistory.
func (h History) Record(m Manga, at time.Time) History {
	out := make(History, 0, len(h)+1)
	out = append(out, HistoryEntry{Entry: NewEntry(m), ViewedAt: at.UnixMilli()})
	for _, e := range h {
		if e.ID == m.ID {
			continue
		}
		out = append(out, e)
		if len(out) == MaxHistory {
			break
		}
	}
	return out
}
