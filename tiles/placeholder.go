package tiles

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PlaceholderSource synthesizes tiles locally: a flat background with the
// z/x/y coordinates printed in the middle and a frame around the edge.
// Useful as a fallback while network tiles load, and for tests.
type PlaceholderSource struct {
	minZoom, maxZoom int
}

func NewPlaceholderSource(minZoom, maxZoom int) *PlaceholderSource {
	return &PlaceholderSource{minZoom: minZoom, maxZoom: maxZoom}
}

func (s *PlaceholderSource) Name() string              { return "Placeholder" }
func (s *PlaceholderSource) TileSize() int             { return TileSize }
func (s *PlaceholderSource) MinZoom() int              { return s.minZoom }
func (s *PlaceholderSource) MaxZoom() int              { return s.maxZoom }
func (s *PlaceholderSource) AttributionRequired() bool { return false }
func (s *PlaceholderSource) Attribution() string       { return "" }

func (s *PlaceholderSource) Load(t Tile) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	// Light blue background
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{200, 220, 255, 255}}, image.Point{}, draw.Src)

	drawTileLabel(img, t)

	borderColor := color.RGBA{100, 100, 100, 255}
	borders := []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),
		image.Rect(0, TileSize-1, TileSize, TileSize),
		image.Rect(0, 0, 1, TileSize),
		image.Rect(TileSize-1, 0, TileSize, TileSize),
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{borderColor}, image.Point{}, draw.Src)
	}

	return img, nil
}

func drawTileLabel(img *image.RGBA, t Tile) {
	text := fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 255}),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()

	padding := 10
	bg := image.Rect(
		(TileSize-textWidth)/2-padding,
		TileSize/2-textHeight/2-padding,
		(TileSize+textWidth)/2+padding,
		TileSize/2+textHeight/2+padding,
	)
	draw.Draw(img, bg, &image.Uniform{color.RGBA{255, 255, 255, 220}}, image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I((TileSize - textWidth) / 2),
		Y: fixed.I(TileSize/2 + textHeight/2),
	}
	d.DrawString(text)
}
