// Package mapview implements an interactive tiled-map viewport: the
// Mercator projection and coordinate conversions, the center/zoom state
// machine with zoom-about-a-point, edge clamping, the tile render scheduler
// and overlay layer composition.
package mapview

import (
	"math"

	"github.com/mapfx/mappane/tiles"
)

// World pixel coordinates are absolute positions on the projected map at a
// given zoom level, origin at the projection of (85.05113°N, 180°W). The
// projected world is a square of WorldSize(zoom) pixels.

// WorldSize returns the edge length of the projected world in pixels.
func WorldSize(zoom int) int {
	return tiles.TileSize << zoom
}

// LonToX maps a longitude to the world pixel column at the given zoom.
func LonToX(lon float64, zoom int) int {
	x := (lon + 180) / 360 * float64(WorldSize(zoom))
	return int(math.Floor(x))
}

// LatToY maps a latitude to the world pixel row at the given zoom. The
// latitude must be within ±tiles.MaxLatitude; callers clamp, LatToY does not.
func LatToY(lat float64, zoom int) int {
	size := float64(WorldSize(zoom))
	y := size * (0.5 - math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))/(2*math.Pi))
	return int(math.Floor(y))
}

// XToLon is the inverse of LonToX. Round-tripping an integer pixel through
// XToLon and LonToX yields the same pixel.
func XToLon(x, zoom int) float64 {
	return float64(x)/float64(WorldSize(zoom))*360 - 180
}

// YToLat is the inverse of LatToY.
func YToLat(y, zoom int) float64 {
	e := (0.5 - float64(y)/float64(WorldSize(zoom))) * 2 * math.Pi
	return (2*math.Atan(math.Exp(e)) - math.Pi/2) * 180 / math.Pi
}
