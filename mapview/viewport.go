package mapview

import (
	"image"

	"github.com/mapfx/mappane/tiles"
)

// Viewport is the read view of the map state that renderers and overlay
// layers work against.
type Viewport interface {
	// Center is the world-pixel position under the viewport midpoint at
	// the current zoom level.
	Center() image.Point
	Zoom() int
	ViewportSize() image.Point
	TileSource() tiles.Source
}
