package tiles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileKey(t *testing.T) {
	tile := Tile{X: 511, Y: 340, Zoom: 10}
	assert.Equal(t, "10/511/340", tile.Key())
	assert.Equal(t, tile.Key(), tile.String())
}

func TestTileValid(t *testing.T) {
	tests := []struct {
		tile     Tile
		expected bool
	}{
		{Tile{X: 0, Y: 0, Zoom: 0}, true},
		{Tile{X: 1, Y: 0, Zoom: 0}, false},
		{Tile{X: 511, Y: 511, Zoom: 9}, true},
		{Tile{X: 512, Y: 0, Zoom: 9}, false},
		{Tile{X: -1, Y: 0, Zoom: 9}, false},
		{Tile{X: 0, Y: -1, Zoom: 9}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.tile.Valid(), "tile %v", tt.tile)
	}
}

func TestConstrainTile(t *testing.T) {
	assert.Equal(t, Tile{X: 0, Y: 0, Zoom: 5}, ConstrainTile(Tile{X: -3, Y: -1, Zoom: 5}))
	assert.Equal(t, Tile{X: 31, Y: 31, Zoom: 5}, ConstrainTile(Tile{X: 40, Y: 99, Zoom: 5}))
	assert.Equal(t, Tile{X: 7, Y: 9, Zoom: 5}, ConstrainTile(Tile{X: 7, Y: 9, Zoom: 5}))
}

func TestLatLngToTile(t *testing.T) {
	// Central London is in tile 511/340 at zoom 10.
	tile := LatLngToTile(LatLng{Lat: 51.507222, Lng: -0.1275}, 10)
	assert.Equal(t, Tile{X: 511, Y: 340, Zoom: 10}, tile)

	// (0°, 0°) is the shared corner of the four central tiles; integer
	// truncation puts it in the south-east one.
	tile = LatLngToTile(LatLng{}, 1)
	assert.Equal(t, Tile{X: 1, Y: 1, Zoom: 1}, tile)
}

func TestTileToLatLng(t *testing.T) {
	ll := TileToLatLng(Tile{X: 0, Y: 0, Zoom: 0})
	assert.InDelta(t, -180, ll.Lng, 1e-9)
	assert.InDelta(t, MaxLatitude, ll.Lat, 0.001)

	// The NW corner of the SE quadrant tile is the origin.
	ll = TileToLatLng(Tile{X: 1, Y: 1, Zoom: 1})
	assert.InDelta(t, 0, ll.Lng, 1e-9)
	assert.InDelta(t, 0, ll.Lat, 1e-9)
}

func TestTileCenterRoundTrip(t *testing.T) {
	for _, tile := range []Tile{
		{X: 511, Y: 340, Zoom: 10},
		{X: 0, Y: 0, Zoom: 3},
		{X: 7, Y: 7, Zoom: 3},
	} {
		c := tile.Bound().Center()
		got := LatLngToTile(LatLng{Lat: c.Lat(), Lng: c.Lon()}, tile.Zoom)
		assert.Equal(t, tile, got)
	}
}

func TestLatLngPoint(t *testing.T) {
	p := LatLng{Lat: 51.5, Lng: -0.1}.Point()
	assert.InDelta(t, -0.1, p.Lon(), 1e-9)
	assert.InDelta(t, 51.5, p.Lat(), 1e-9)
}

func TestTileBound(t *testing.T) {
	b := Tile{X: 0, Y: 0, Zoom: 1}.Bound()
	assert.InDelta(t, -180, b.Min.Lon(), 1e-6)
	assert.InDelta(t, 0, b.Max.Lon(), 1e-6)
	assert.True(t, math.Abs(b.Max.Lat()-MaxLatitude) < 0.001)
}
