package components

import (
	"strconv"
	"strings"

	"github.com/kerbaras/mangaverse/pkg/app/styles"
	"github.com/kerbaras/mangaverse/pkg/services"
)

// Pagination draws the page window of a list payload.
func Pagination(p services.ListPayload) string {
	if p.TotalPages <= 1 {
		return ""
	}

	parts := make([]string, 0, len(p.Window)+2)
	if p.HasPrev {
		parts = append(parts, styles.PageStyle.Render("‹ Prev"))
	} else {
		parts = append(parts, styles.DisabledPageStyle.Render("‹ Prev"))
	}
	for _, page := range p.Window {
		switch {
		case page == services.Ellipsis:
			parts = append(parts, styles.DisabledPageStyle.Render("…"))
		case page == p.Page:
			parts = append(parts, styles.ActivePageStyle.Render(strconv.Itoa(page)))
		default:
			parts = append(parts, styles.PageStyle.Render(strconv.Itoa(page)))
		}
	}
	if p.HasNext {
		parts = append(parts, styles.PageStyle.Render("Next ›"))
	} else {
		parts = append(parts, styles.DisabledPageStyle.Render("Next ›"))
	}
	return strings.Join(parts, "")
}
