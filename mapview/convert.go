package mapview

import (
	"image"

	"github.com/mapfx/mappane/tiles"
)

// Conversions between world pixels and viewport pixels. The viewport is a
// window of the given size whose midpoint sits at center (world pixels).
// All functions are pure.

// ToWorldPixel converts a viewport-local point to world pixels.
func ToWorldPixel(p, center, size image.Point) image.Point {
	return image.Point{
		X: center.X + p.X - size.X/2,
		Y: center.Y + p.Y - size.Y/2,
	}
}

// ToViewportPoint converts a world pixel to viewport-local coordinates.
func ToViewportPoint(world, center, size image.Point) image.Point {
	return image.Point{
		X: world.X - center.X + size.X/2,
		Y: world.Y - center.Y + size.Y/2,
	}
}

// ToCoordinate returns the geographic coordinate under a viewport-local
// point.
func ToCoordinate(p, center, size image.Point, zoom int) tiles.LatLng {
	world := ToWorldPixel(p, center, size)
	return tiles.LatLng{
		Lat: YToLat(world.Y, zoom),
		Lng: XToLon(world.X, zoom),
	}
}

// CoordinateToViewport projects a geographic coordinate to viewport-local
// coordinates.
func CoordinateToViewport(ll tiles.LatLng, center, size image.Point, zoom int) image.Point {
	world := image.Point{X: LonToX(ll.Lng, zoom), Y: LatToY(ll.Lat, zoom)}
	return ToViewportPoint(world, center, size)
}
