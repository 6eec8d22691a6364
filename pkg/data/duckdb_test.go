package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mangaverse-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewDuckDBRepository(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to init DB: %v", err)
	}

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func TestGetMissingKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	value, ok, err := repo.Get("missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if ok {
		t.Error("Expected missing key to report ok=false")
	}
	if value != "" {
		t.Errorf("Expected empty value, got %q", value)
	}
}

func TestPutUpsert(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.Put("k", "one"); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}
	if err := repo.Put("k", "two"); err != nil {
		t.Fatalf("Failed to overwrite: %v", err)
	}

	value, ok, err := repo.Get("k")
	if err != nil || !ok {
		t.Fatalf("Expected key to exist, err=%v", err)
	}
	if value != "two" {
		t.Errorf("Expected 'two', got %q", value)
	}
}

func TestThemeDefaultsToDark(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	theme, err := repo.LoadTheme()
	if err != nil {
		t.Fatalf("Failed to load theme: %v", err)
	}
	if theme != ThemeDark {
		t.Errorf("Expected dark theme, got %s", theme)
	}
}

func TestSaveAndLoadTheme(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.SaveTheme(ThemeLight); err != nil {
		t.Fatalf("Failed to save theme: %v", err)
	}

	theme, err := repo.LoadTheme()
	if err != nil {
		t.Fatalf("Failed to load theme: %v", err)
	}
	if theme != ThemeLight {
		t.Errorf("Expected light theme, got %s", theme)
	}

	if err := repo.SaveTheme(Theme("sepia")); err == nil {
		t.Error("Expected invalid theme to be rejected")
	}
}

func TestSaveAndLoadFavorites(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	score := 9.1
	favorites, _ := Favorites{}.Toggle(Manga{ID: 2, Title: "Berserk", Score: &score})
	favorites, _ = favorites.Toggle(Manga{ID: 13, Title: "One Piece"})

	if err := repo.SaveFavorites(favorites); err != nil {
		t.Fatalf("Failed to save favorites: %v", err)
	}

	loaded, err := repo.LoadFavorites()
	if err != nil {
		t.Fatalf("Failed to load favorites: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("Expected 2 favorites, got %d", len(loaded))
	}
	if loaded[0].ID != 13 {
		t.Errorf("Expected newest favorite first, got %d", loaded[0].ID)
	}
	if loaded[1].Score == nil || *loaded[1].Score != 9.1 {
		t.Error("Expected score to survive the round trip")
	}
}

func TestEmptyCollectionsPersistAsEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	if err := repo.SaveHistory(nil); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}

	raw, _, _ := repo.Get(KeyHistory)
	if raw != "[]" {
		t.Errorf("Expected [] to be stored, got %q", raw)
	}

	history, err := repo.LoadHistory()
	if err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("Expected empty history, got %d", len(history))
	}
}

func TestHistorySurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "history.db")

	repo, err := NewDuckDBRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to open DB: %v", err)
	}

	viewed := time.UnixMilli(1700000000000)
	history := History{}.Record(Manga{ID: 1, Title: "Monster"}, viewed)
	if err := repo.SaveHistory(history); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}
	repo.Close()

	reopened, err := NewDuckDBRepository(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen DB: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.LoadHistory()
	if err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(loaded))
	}
	if !loaded[0].Viewed().Equal(viewed) {
		t.Errorf("Expected viewedAt %v, got %v", viewed, loaded[0].Viewed())
	}
}

func TestCorruptFavoritesReportError(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	repo.Put(KeyFavorites, "{not json")

	favorites, err := repo.LoadFavorites()
	if err == nil {
		t.Error("Expected decode error for corrupt favorites")
	}
	if len(favorites) != 0 {
		t.Errorf("Expected empty favorites on error, got %d", len(favorites))
	}
}
