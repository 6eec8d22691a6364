package services

// MaxDisplayPages bounds how many pages any list exposes.
const MaxDisplayPages = 25

const pageWindowSize = 5

// Ellipsis marks a gap in a page window.
const Ellipsis = 0

// ClampTotal turns the server's last page into the displayable page count.
func ClampTotal(lastPage int) int {
	if lastPage < 1 {
		return 1
	}
	if lastPage > MaxDisplayPages {
		return MaxDisplayPages
	}
	return lastPage
}

// ClampPage keeps page inside [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// PageWindow lists the page buttons to show around current. Gaps are
// reported as Ellipsis.
func PageWindow(current, total int) []int {
	total = ClampTotal(total)
	if total <= pageWindowSize {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}
	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}
