package tiles

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// TileSize is the edge length of a raster tile in pixels. All sources in
// this package serve 256px tiles, the slippy-map standard.
const TileSize = 256

// MaxLatitude is the Mercator projection limit. Latitudes beyond it have no
// tile coordinate.
const MaxLatitude = 85.05113

// Tile identifies one raster tile by zoom and column/row.
type Tile struct {
	X, Y, Zoom int
}

// Key returns the canonical z/x/y cache key for the tile.
func (t Tile) Key() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

func (t Tile) String() string {
	return t.Key()
}

// Valid reports whether the tile coordinates are inside the tile grid for
// its zoom level.
func (t Tile) Valid() bool {
	n := 1 << t.Zoom
	return t.Zoom >= 0 && t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// Bound returns the geographic footprint of the tile.
func (t Tile) Bound() orb.Bound {
	return maptile.New(uint32(t.X), uint32(t.Y), maptile.Zoom(t.Zoom)).Bound()
}

// LatLng is a geographical point in degrees.
type LatLng struct {
	Lat, Lng float64
}

// Point returns the coordinate as an orb point (lng, lat order).
func (ll LatLng) Point() orb.Point {
	return orb.Point{ll.Lng, ll.Lat}
}

// LatLngToTile converts geographical coordinates to the tile containing them.
func LatLngToTile(ll LatLng, zoom int) Tile {
	latRad := ll.Lat * math.Pi / 180
	n := math.Pow(2, float64(zoom))
	x := int((ll.Lng + 180.0) / 360.0 * n)
	y := int((1.0 - math.Log(math.Tan(latRad)+(1/math.Cos(latRad)))/math.Pi) / 2.0 * n)
	return ConstrainTile(Tile{X: x, Y: y, Zoom: zoom})
}

// TileToLatLng returns the geographical coordinates of the tile's north-west
// corner.
func TileToLatLng(t Tile) LatLng {
	n := math.Pow(2, float64(t.Zoom))
	lng := float64(t.X)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(t.Y)/n)))
	return LatLng{Lat: latRad * 180.0 / math.Pi, Lng: lng}
}

// ConstrainTile clamps tile coordinates into the valid range for the tile's
// zoom level.
func ConstrainTile(t Tile) Tile {
	maxTile := (1 << t.Zoom) - 1
	t.X = max(0, min(t.X, maxTile))
	t.Y = max(0, min(t.Y, maxTile))
	return t
}
