package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// CoverSettings bounds the thumbnails embedded in exports.
type CoverSettings struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // JPEG quality (1-100)
	Grayscale bool
}

func DefaultCoverSettings() CoverSettings {
	return CoverSettings{MaxWidth: 300, MaxHeight: 450, Quality: 80}
}

// CoverProcessor turns downloaded covers into small JPEG thumbnails.
type CoverProcessor struct {
	settings CoverSettings
}

func NewCoverProcessor(settings CoverSettings) *CoverProcessor {
	if settings.Quality <= 0 || settings.Quality > 100 {
		settings.Quality = jpeg.DefaultQuality
	}
	return &CoverProcessor{settings: settings}
}

// ProcessImage decodes a JPEG or PNG cover, scales it down to fit the
// settings and re-encodes it as JPEG.
func (p *CoverProcessor) ProcessImage(input io.Reader) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := p.calculateDimensions(bounds.Dx(), bounds.Dy())

	var processed image.Image = img
	if width != bounds.Dx() || height != bounds.Dy() {
		processed = p.resize(img, width, height)
	}
	if p.settings.Grayscale {
		processed = toGrayscale(processed)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: p.settings.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// calculateDimensions keeps the aspect ratio and never upscales.
func (p *CoverProcessor) calculateDimensions(width, height int) (int, int) {
	if p.settings.MaxWidth <= 0 || p.settings.MaxHeight <= 0 {
		return width, height
	}
	if width <= p.settings.MaxWidth && height <= p.settings.MaxHeight {
		return width, height
	}

	widthScale := float64(p.settings.MaxWidth) / float64(width)
	heightScale := float64(p.settings.MaxHeight) / float64(height)
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))
	return newWidth, newHeight
}

func (p *CoverProcessor) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func toGrayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}
