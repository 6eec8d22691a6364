package components

import (
	"strings"
	"testing"

	"github.com/kerbaras/mangaverse/pkg/services"
)

func TestScoreBar(t *testing.T) {
	score := 7.5
	bar := ScoreBar(&score, 40)

	filled := strings.Count(bar, "█")
	empty := strings.Count(bar, "░")

	if filled != 30 {
		t.Errorf("Expected 30 filled chars, got %d", filled)
	}
	if empty != 10 {
		t.Errorf("Expected 10 empty chars, got %d", empty)
	}
}

func TestScoreBarWithoutScore(t *testing.T) {
	if bar := ScoreBar(nil, 40); bar != "" {
		t.Errorf("Expected empty bar, got %q", bar)
	}
}

func TestPageProgressBounds(t *testing.T) {
	if bar := PageProgress(3, 0, 20); bar != "" {
		t.Error("Expected empty bar for zero total")
	}

	bar := PageProgress(30, 25, 20)
	if filled := strings.Count(bar, "█"); filled != 20 {
		t.Errorf("Expected bar capped at width, got %d filled", filled)
	}
}

func TestPagination(t *testing.T) {
	p := services.ListPayload{
		Page:       6,
		TotalPages: 25,
		Window:     services.PageWindow(6, 25),
		HasPrev:    true,
		HasNext:    true,
	}

	view := Pagination(p)

	for _, want := range []string{"‹ Prev", "1", "5", "6", "7", "25", "…", "Next ›"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in pagination", want)
		}
	}
	if strings.Count(view, "…") != 2 {
		t.Errorf("Expected two gaps, got %q", view)
	}
}

func TestPaginationSinglePage(t *testing.T) {
	if view := Pagination(services.ListPayload{Page: 1, TotalPages: 1, Window: []int{1}}); view != "" {
		t.Errorf("Expected no pagination for a single page, got %q", view)
	}
}
