package services

import (
	"fmt"
	"strconv"

	"github.com/kerbaras/mangaverse/pkg/data"
)

// FormatNumber abbreviates counts: 1234 -> 1.2K, 3400000 -> 3.4M.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.Itoa(n)
	}
}

func FormatScore(score *float64) string {
	if score == nil || *score == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// FormatProgress is the card subtitle: chapter count or status, plus the year.
func FormatProgress(m data.Manga) string {
	s := m.Status
	if m.Chapters != nil && *m.Chapters > 0 {
		s = fmt.Sprintf("%d chapters", *m.Chapters)
	}
	if s == "" {
		s = "Unknown"
	}
	if y := m.Published.Year(); y != 0 {
		s += fmt.Sprintf(" • %d", y)
	}
	return s
}
