package integrations

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-epub"
	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/services"
	"github.com/kerbaras/mangaverse/pkg/utils"
)

const malMangaURL = "https://myanimelist.net/manga/%d"

// EPubBuilder exports the favorites as a reading list e-book, one section
// per manga with its cover.
type EPubBuilder struct {
	outputDir string
	fetcher   utils.Fetcher
	covers    *CoverProcessor
	logger    *slog.Logger
	now       func() time.Time
}

type EPubOption func(*EPubBuilder)

// WithCovers downloads covers through fetcher and embeds them.
func WithCovers(fetcher utils.Fetcher, settings CoverSettings) EPubOption {
	return func(b *EPubBuilder) {
		b.fetcher = fetcher
		b.covers = NewCoverProcessor(settings)
	}
}

func WithLogger(l *slog.Logger) EPubOption {
	return func(b *EPubBuilder) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewEPubBuilder(outputDir string, opts ...EPubOption) *EPubBuilder {
	b := &EPubBuilder{
		outputDir: outputDir,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Export compiles favorites into a single EPub file
func (b *EPubBuilder) Export(ctx context.Context, favorites data.Favorites) (string, error) {
	if len(favorites) == 0 {
		return "", fmt.Errorf("no favorites to export")
	}
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	e, err := epub.NewEpub("MangaVerse Favorites")
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor("MangaVerse")
	e.SetDescription(fmt.Sprintf("%d favorite manga", len(favorites)))
	e.SetLang("en")

	if _, err := e.AddSection(b.renderIndex(favorites), "Favorites", "", ""); err != nil {
		return "", fmt.Errorf("failed to add index: %w", err)
	}

	workDir, err := os.MkdirTemp("", "mangaverse-covers-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	for _, fav := range favorites {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		cover := b.addCover(ctx, e, workDir, fav)
		if _, err := e.AddSection(renderEntry(fav, cover), fav.Title, "", ""); err != nil {
			return "", fmt.Errorf("failed to add %q: %w", fav.Title, err)
		}
	}

	name := "mangaverse-favorites-" + b.now().Format("20060102-150405")
	outputPath := filepath.Join(b.outputDir, sanitizeFilename(name)+".epub")
	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}

	b.logger.Info("exported favorites", "path", outputPath, "count", len(favorites))
	return outputPath, nil
}

// addCover returns the internal image path, or "" when the cover could not
// be embedded. Cover failures never fail the export.
func (b *EPubBuilder) addCover(ctx context.Context, e *epub.Epub, workDir string, fav data.FavoriteEntry) string {
	url := fav.Images.Cover()
	if b.fetcher == nil || url == "" {
		return ""
	}

	thumb, err := b.fetchCover(ctx, url)
	if err != nil {
		b.logger.Warn("skipping cover", "id", fav.ID, "url", url, "error", err)
		return ""
	}

	filename := fmt.Sprintf("cover-%d.jpg", fav.ID)
	local := filepath.Join(workDir, filename)
	if err := os.WriteFile(local, thumb, 0644); err != nil {
		b.logger.Warn("skipping cover", "id", fav.ID, "error", err)
		return ""
	}
	internal, err := e.AddImage(local, filename)
	if err != nil {
		b.logger.Warn("skipping cover", "id", fav.ID, "error", err)
		return ""
	}
	return internal
}

func (b *EPubBuilder) fetchCover(ctx context.Context, url string) ([]byte, error) {
	resp, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return b.covers.ProcessImage(resp.Body)
}

func (b *EPubBuilder) renderIndex(favorites data.Favorites) string {
	var s strings.Builder
	s.WriteString("<h1>MangaVerse Favorites</h1>\n")
	s.WriteString(fmt.Sprintf("<p>%d manga, exported %s</p>\n<ol>\n",
		len(favorites), b.now().Format("January 2, 2006")))
	for _, fav := range favorites {
		s.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(fav.Title)))
	}
	s.WriteString("</ol>\n")
	return s.String()
}

func renderEntry(fav data.FavoriteEntry, cover string) string {
	summary := fav.Summary()

	var s strings.Builder
	s.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(fav.Title)))
	if cover != "" {
		s.WriteString(fmt.Sprintf(`<div class="cover"><img src="%s" alt="%s" style="max-width:100%%;height:auto;"/></div>%s`,
			cover, html.EscapeString(fav.Title), "\n"))
	}
	s.WriteString(fmt.Sprintf("<p>%s</p>\n", html.EscapeString(services.FormatProgress(summary))))
	s.WriteString(fmt.Sprintf("<p>Score: %s</p>\n", services.FormatScore(fav.Score)))
	link := fmt.Sprintf(malMangaURL, fav.ID)
	s.WriteString(fmt.Sprintf(`<p><a href="%s">%s</a></p>%s`, link, link, "\n"))
	return s.String()
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
