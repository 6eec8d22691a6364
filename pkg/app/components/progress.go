package components

import (
	"strings"

	"github.com/kerbaras/mangaverse/pkg/app/styles"
)

func renderProgressBar(current, total float64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := int(current / total * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// ScoreBar renders a score out of 10, empty when there is no score.
func ScoreBar(score *float64, width int) string {
	if score == nil {
		return ""
	}
	return renderProgressBar(*score, 10, width)
}

// PageProgress shows how far into the displayable pages a list is.
func PageProgress(page, total, width int) string {
	return renderProgressBar(float64(page), float64(total), width)
}
