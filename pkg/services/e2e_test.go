package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/gateway"
	"github.com/kerbaras/mangaverse/pkg/sources"
)

// E2E tests for the browse pipeline: HTTP API, gateway, source, catalog,
// coordinator and the DuckDB store.

func jikanHandler(requests *atomic.Int32) http.HandlerFunc {
	entry := func(id int, title string, genres ...int) map[string]any {
		tags := []map[string]any{}
		for _, g := range genres {
			tags = append(tags, map[string]any{"mal_id": g, "name": fmt.Sprintf("genre-%d", g)})
		}
		return map[string]any{"mal_id": id, "title": title, "score": 8.5, "status": "Finished", "genres": tags}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var body any
		switch {
		case r.URL.Path == "/manga" && r.URL.Query().Get("q") != "":
			body = map[string]any{
				"data":       []any{entry(21, "Search Hit")},
				"pagination": map[string]any{"last_visible_page": 1, "current_page": 1},
			}
		case r.URL.Path == "/manga":
			body = map[string]any{
				"data":       []any{entry(1, "Monster"), entry(2, "Berserk"), entry(3, "Unsafe", 12)},
				"pagination": map[string]any{"last_visible_page": 60, "has_next_page": true, "current_page": 1},
			}
		case strings.HasPrefix(r.URL.Path, "/manga/") && strings.HasSuffix(r.URL.Path, "/full"):
			var id int
			fmt.Sscanf(r.URL.Path, "/manga/%d/full", &id)
			body = map[string]any{"data": entry(id, fmt.Sprintf("Manga %d", id))}
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}
}

func TestE2E_BrowsePipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	var requests atomic.Int32
	server := httptest.NewServer(jikanHandler(&requests))
	defer server.Close()

	dbPath := filepath.Join(t.TempDir(), "e2e.db")
	repo, err := data.NewDuckDBRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repository: %v", err)
	}

	gw := gateway.New(gateway.WithHTTPClient(server.Client()), gateway.WithMinInterval(0))
	catalog := NewCatalog(sources.NewJikan(server.URL, gw), nil)
	rec := &recorder{}
	coord := NewCoordinator(catalog, repo, WithRenderer(rec))
	ctx := context.Background()

	t.Run("Start", func(t *testing.T) {
		if err := coord.Start(ctx); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		lists := Payloads[ListPayload](rec)
		if len(lists) != 1 {
			t.Fatalf("Expected 1 list, got %d", len(lists))
		}
		if len(lists[0].Items) != 2 {
			t.Errorf("Expected unsafe entry to be filtered, got %d items", len(lists[0].Items))
		}
		if lists[0].TotalPages != MaxDisplayPages {
			t.Errorf("Expected %d pages, got %d", MaxDisplayPages, lists[0].TotalPages)
		}
	})

	t.Run("Search", func(t *testing.T) {
		if err := coord.OnSearch(ctx, "  hit "); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if view := coord.State().View; view != ViewSearch {
			t.Errorf("Expected search view, got %s", view)
		}
	})

	t.Run("Open and favorite", func(t *testing.T) {
		if err := coord.OnSelectItem(ctx, 21); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if err := coord.OnToggleFavorite(21); err != nil {
			t.Fatalf("Toggle failed: %v", err)
		}
		coord.Back()
		if view := coord.State().View; view != ViewSearch {
			t.Errorf("Expected back to search, got %s", view)
		}
	})

	t.Run("Theme", func(t *testing.T) {
		if err := coord.ToggleTheme(); err != nil {
			t.Fatalf("Toggle theme failed: %v", err)
		}
	})

	if err := repo.Close(); err != nil {
		t.Fatalf("Failed to close repository: %v", err)
	}

	t.Run("Restore from disk", func(t *testing.T) {
		repo, err := data.NewDuckDBRepository(dbPath)
		if err != nil {
			t.Fatalf("Failed to reopen repository: %v", err)
		}
		defer repo.Close()

		before := requests.Load()
		restored := NewCoordinator(catalog, repo)
		restored.Restore()
		state := restored.State()

		if requests.Load() != before {
			t.Errorf("Restore should not hit the API")
		}
		if state.Theme != data.ThemeLight {
			t.Errorf("Expected light theme, got %s", state.Theme)
		}
		if !state.Favorites.Contains(21) {
			t.Errorf("Expected favorite 21 to be persisted")
		}
		if len(state.History) != 1 || state.History[0].ID != 21 {
			t.Errorf("Expected history with manga 21, got %+v", state.History)
		}
	})
}

func TestE2E_ServerErrorsSurface(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gw := gateway.New(gateway.WithHTTPClient(server.Client()), gateway.WithMinInterval(0))
	rec := &recorder{}
	coord := NewCoordinator(NewCatalog(sources.NewJikan(server.URL, gw), nil), &memStore{}, WithRenderer(rec))

	if err := coord.OnFilterChange(context.Background(), data.OrderScore); err == nil {
		t.Fatal("Expected an error")
	}
	failures := Payloads[FailurePayload](rec)
	if len(failures) != 1 {
		t.Fatalf("Expected 1 failure, got %d", len(failures))
	}
	if failures[0].Message != msgTryAgain {
		t.Errorf("Expected %q, got %q", msgTryAgain, failures[0].Message)
	}
}
