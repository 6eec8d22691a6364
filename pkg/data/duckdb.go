package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const (
	KeyTheme     = "mangaverse-theme"
	KeyFavorites = "mangaverse-favorites"
	KeyHistory   = "mangaverse-history"
)

var ErrInvalidTheme = errors.New("theme must be dark or light")

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key VARCHAR PRIMARY KEY,
	value VARCHAR NOT NULL
)`

// InitDuckDB opens the database at path, creating parent directories and
// the key/value table when missing.
func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Repository persists theme, favorites and history snapshots.
type Repository struct {
	db *sql.DB
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) Put(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// LoadTheme returns the stored theme, dark when none was saved.
func (r *Repository) LoadTheme() (Theme, error) {
	value, ok, err := r.Get(KeyTheme)
	if err != nil || !ok {
		return ThemeDark, err
	}
	theme := Theme(value)
	if !theme.Valid() {
		return ThemeDark, fmt.Errorf("stored theme %q: %w", value, ErrInvalidTheme)
	}
	return theme, nil
}

func (r *Repository) SaveTheme(theme Theme) error {
	if !theme.Valid() {
		return ErrInvalidTheme
	}
	return r.Put(KeyTheme, string(theme))
}

func (r *Repository) LoadFavorites() (Favorites, error) {
	var favorites Favorites
	if err := r.getJSON(KeyFavorites, &favorites); err != nil {
		return Favorites{}, err
	}
	return favorites, nil
}

func (r *Repository) SaveFavorites(favorites Favorites) error {
	return r.putJSON(KeyFavorites, favorites)
}

func (r *Repository) LoadHistory() (History, error) {
	var history History
	if err := r.getJSON(KeyHistory, &history); err != nil {
		return History{}, err
	}
	return history, nil
}

func (r *Repository) SaveHistory(history History) error {
	return r.putJSON(KeyHistory, history)
}

func (r *Repository) getJSON(key string, v any) error {
	value, ok, err := r.Get(key)
	if err != nil || !ok {
		return err
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) putJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	// nil collections are stored as [] so a reload never yields null
	if string(raw) == "null" {
		raw = []byte("[]")
	}
	return r.Put(key, string(raw))
}
