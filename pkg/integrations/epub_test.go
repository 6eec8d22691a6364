package integrations

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kerbaras/mangaverse/pkg/data"
	"github.com/kerbaras/mangaverse/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func favorite(id int, title, cover string) data.FavoriteEntry {
	score := 8.5
	m := data.Manga{ID: id, Title: title, Status: "Finished", Score: &score}
	m.Images.JPG.LargeImageURL = cover
	return data.NewEntry(m)
}

// readEPub returns the archive's files by name.
func readEPub(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	files := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(body)
	}
	return files
}

func TestExportRejectsEmptyFavorites(t *testing.T) {
	_, err := NewEPubBuilder(t.TempDir()).Export(context.Background(), nil)
	assert.Error(t, err)
}

func TestExportWithoutCovers(t *testing.T) {
	dir := t.TempDir()
	b := NewEPubBuilder(dir)
	b.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	path, err := b.Export(context.Background(), data.Favorites{
		favorite(13, "One Piece", ""),
		favorite(2, "Berserk <Deluxe>", ""),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "mangaverse-favorites-20240501-093000.epub"))

	files := readEPub(t, path)
	var body strings.Builder
	for name, content := range files {
		if strings.HasSuffix(name, ".xhtml") {
			body.WriteString(content)
		}
	}
	text := body.String()
	assert.Contains(t, text, "One Piece")
	assert.Contains(t, text, "Berserk &lt;Deluxe&gt;")
	assert.Contains(t, text, "https://myanimelist.net/manga/13")
	assert.Contains(t, text, "Score: 8.5")
}

func TestExportEmbedsCovers(t *testing.T) {
	cover := testPNG(t, 600, 900)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(cover)
	}))
	defer server.Close()

	fetcher := gateway.New(gateway.WithHTTPClient(server.Client()), gateway.WithMinInterval(0))
	b := NewEPubBuilder(t.TempDir(), WithCovers(fetcher, DefaultCoverSettings()))

	path, err := b.Export(context.Background(), data.Favorites{
		favorite(1, "With cover", server.URL+"/cover.png"),
		favorite(2, "Broken cover", server.URL+"/missing.jpg"),
	})
	require.NoError(t, err)

	files := readEPub(t, path)
	var embedded string
	for name, content := range files {
		if strings.HasSuffix(name, "cover-1.jpg") {
			embedded = content
		}
		assert.False(t, strings.HasSuffix(name, "cover-2.jpg"), "failed covers are skipped")
	}
	require.NotEmpty(t, embedded)

	img, err := jpeg.Decode(strings.NewReader(embedded))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestCoverProcessorKeepsSmallImages(t *testing.T) {
	p := NewCoverProcessor(DefaultCoverSettings())

	out, err := p.ProcessImage(bytes.NewReader(testPNG(t, 100, 150)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 150), img.Bounds())
}

func TestCoverProcessorGrayscale(t *testing.T) {
	p := NewCoverProcessor(CoverSettings{MaxWidth: 50, MaxHeight: 50, Grayscale: true})

	out, err := p.ProcessImage(bytes.NewReader(testPNG(t, 200, 100)))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
	_, isGray := img.(*image.Gray)
	assert.True(t, isGray)
}

func TestCoverProcessorRejectsGarbage(t *testing.T) {
	_, err := NewCoverProcessor(DefaultCoverSettings()).ProcessImage(strings.NewReader("not an image"))
	assert.ErrorContains(t, err, "failed to decode image")
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"One Piece":       "One Piece",
		"Re:Zero":         "Re_Zero",
		"a/b\\c":          "a_b_c",
		"  ...title... ": "title",
		`What? "Yes" <3`: "What_ _Yes_ _3",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
