package mapview

import (
	"math"
	"testing"

	"github.com/mapfx/mappane/tiles"
)

func TestWorldSize(t *testing.T) {
	tests := []struct {
		zoom     int
		expected int
	}{
		{0, 256},
		{1, 512},
		{9, 131072},
		{19, 134217728},
	}

	for _, tt := range tests {
		if got := WorldSize(tt.zoom); got != tt.expected {
			t.Errorf("WorldSize(%d) = %d, want %d", tt.zoom, got, tt.expected)
		}
	}
}

func TestProjectionOrigin(t *testing.T) {
	// (0°, 0°) projects to the middle of the world square at every zoom.
	for zoom := 0; zoom <= 19; zoom++ {
		half := WorldSize(zoom) / 2
		if x := LonToX(0, zoom); x != half {
			t.Errorf("LonToX(0, %d) = %d, want %d", zoom, x, half)
		}
		if y := LatToY(0, zoom); y != half {
			t.Errorf("LatToY(0, %d) = %d, want %d", zoom, y, half)
		}
	}
}

func TestProjectionCorners(t *testing.T) {
	if x := LonToX(-180, 5); x != 0 {
		t.Errorf("LonToX(-180, 5) = %d, want 0", x)
	}
	if x := LonToX(180, 5); x != WorldSize(5) {
		t.Errorf("LonToX(180, 5) = %d, want %d", x, WorldSize(5))
	}
	// The Mercator latitude limit lands on the top edge, up to rounding.
	if y := LatToY(tiles.MaxLatitude, 5); y > 1 {
		t.Errorf("LatToY(max latitude, 5) = %d, want <= 1", y)
	}
}

// Pixel-level round trip: projecting, inverting and re-projecting must give
// back the same integer pixel.
func TestPixelRoundTrip(t *testing.T) {
	for zoom := 1; zoom <= 18; zoom += 3 {
		size := WorldSize(zoom)
		for _, frac := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
			x := int(float64(size) * frac)
			y := int(float64(size) * frac)

			lon := XToLon(x, zoom)
			if got := LonToX(lon, zoom); abs(got-x) > 1 {
				t.Errorf("zoom %d: LonToX(XToLon(%d)) = %d", zoom, x, got)
			}
			lat := YToLat(y, zoom)
			if got := LatToY(lat, zoom); abs(got-y) > 1 {
				t.Errorf("zoom %d: LatToY(YToLat(%d)) = %d", zoom, y, got)
			}
		}
	}
}

// Angular round trip: the recovered angle differs by at most one pixel's
// angular resolution.
func TestAngularRoundTrip(t *testing.T) {
	coords := []tiles.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: 51.507222, Lng: -0.1275},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 78.2232, Lng: 15.6267},
		{Lat: -54.8019, Lng: -68.3030},
	}

	for zoom := 2; zoom <= 18; zoom += 4 {
		degPerPixel := 360.0 / float64(WorldSize(zoom))
		for _, c := range coords {
			lon := XToLon(LonToX(c.Lng, zoom), zoom)
			if math.Abs(lon-c.Lng) > degPerPixel {
				t.Errorf("zoom %d: lon %v round-tripped to %v", zoom, c.Lng, lon)
			}
			lat := YToLat(LatToY(c.Lat, zoom), zoom)
			// Mercator stretches latitude away from the equator; a pixel
			// covers more degrees of longitude than latitude everywhere.
			if math.Abs(lat-c.Lat) > degPerPixel {
				t.Errorf("zoom %d: lat %v round-tripped to %v", zoom, c.Lat, lat)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
