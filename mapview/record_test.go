package mapview

import (
	"image"
	"image/color"
)

// recordingCanvas counts render passes and records what the latest pass
// drew. It stands in for the Gio canvas in tests.
type recordingCanvas struct {
	passes int
	inPass bool

	tilePositions []image.Point
	tileImages    []image.Image
	fillRects     int
	strokeRects   int
	lines         int
	polygons      int
	circles       int
	labels        []string
}

func (c *recordingCanvas) Begin() {
	c.passes++
	c.inPass = true
	c.tilePositions = nil
	c.tileImages = nil
	c.fillRects = 0
	c.strokeRects = 0
	c.lines = 0
	c.polygons = 0
	c.circles = 0
	c.labels = nil
}

func (c *recordingCanvas) End() {
	c.inPass = false
}

func (c *recordingCanvas) DrawTile(img image.Image, at image.Point) {
	c.tilePositions = append(c.tilePositions, at)
	c.tileImages = append(c.tileImages, img)
}

func (c *recordingCanvas) FillRect(r image.Rectangle, col color.NRGBA) {
	c.fillRects++
}

func (c *recordingCanvas) StrokeRect(r image.Rectangle, col color.NRGBA, width float32) {
	c.strokeRects++
}

func (c *recordingCanvas) StrokeLine(pts []image.Point, col color.NRGBA, width float32) {
	c.lines++
}

func (c *recordingCanvas) FillPolygon(pts []image.Point, col color.NRGBA) {
	c.polygons++
}

func (c *recordingCanvas) FillCircle(center image.Point, radius int, col color.NRGBA) {
	c.circles++
}

func (c *recordingCanvas) DrawLabel(text string, at image.Point, col color.NRGBA) {
	c.labels = append(c.labels, text)
}
