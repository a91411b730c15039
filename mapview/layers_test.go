package mapview

import (
	"image"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapfx/mappane/tiles"
)

func TestMarkerRendersAtProjectedPoint(t *testing.T) {
	v := &stubView{center: image.Pt(65536, 65536), zoom: 9, size: image.Pt(600, 600)}
	marker := NewMapMarker(0, 0)

	c := &recordingCanvas{}
	c.Begin()
	marker.Render(v, c)
	c.End()

	assert.Equal(t, 1, c.circles)
	assert.Equal(t, LayerMarker, marker.Kind())
	assert.Equal(t, orb.Point{0, 0}, marker.Bound().Min)
}

func TestLineRendersOneStroke(t *testing.T) {
	v := &stubView{center: image.Pt(65536, 65536), zoom: 9, size: image.Pt(600, 600)}
	line := NewMapLine(orb.LineString{{-0.1, 51.5}, {0.1, 51.6}, {0.2, 51.7}})

	c := &recordingCanvas{}
	c.Begin()
	line.Render(v, c)
	c.End()

	assert.Equal(t, 1, c.lines)
	assert.Equal(t, LayerLine, line.Kind())
}

func TestPolygonOutlineClosesOpenRing(t *testing.T) {
	v := &stubView{center: image.Pt(65536, 65536), zoom: 9, size: image.Pt(600, 600)}

	open := NewMapPolygon(orb.Ring{{0, 0}, {1, 0}, {1, 1}})
	closed := NewMapPolygon(orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}})

	for _, p := range []*MapPolygon{open, closed} {
		c := &recordingCanvas{}
		c.Begin()
		p.Render(v, c)
		c.End()
		assert.Equal(t, 1, c.polygons)
		assert.Equal(t, 1, c.lines, "every polygon draws one outline")
	}
}

func TestAttributionOverlay(t *testing.T) {
	v := &stubView{center: image.Pt(65536, 65536), zoom: 9, size: image.Pt(600, 600)}
	v.source = &attributedSource{tiles.NewPlaceholderSource(0, 19)}

	var overlay AttributionOverlay
	c := &recordingCanvas{}
	c.Begin()
	overlay.Render(v, c)
	c.End()

	require.Equal(t, []string{"test data"}, c.labels)
	assert.Equal(t, 1, c.fillRects, "the label gets a backing plate")

	// An empty attribution draws nothing at all.
	v.source = tiles.NewPlaceholderSource(0, 19)
	c.Begin()
	overlay.Render(v, c)
	c.End()
	assert.Empty(t, c.labels)
	assert.Zero(t, c.fillRects)
}

func TestLayersFromGeoJSON(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-0.1275, 51.507222]}},
			{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}},
			{"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}},
			{"type": "Feature", "geometry": {"type": "MultiPoint", "coordinates": [[2, 2], [3, 3]]}}
		]
	}`)

	layers, err := LayersFromGeoJSON(data)
	require.NoError(t, err)
	require.Len(t, layers, 5)

	marker, ok := layers[0].(*MapMarker)
	require.True(t, ok)
	assert.InDelta(t, 51.507222, marker.Pos.Lat, 1e-9)
	assert.InDelta(t, -0.1275, marker.Pos.Lng, 1e-9)

	assert.IsType(t, &MapLine{}, layers[1])
	assert.IsType(t, &MapPolygon{}, layers[2])
	assert.IsType(t, &MapMarker{}, layers[3])
	assert.IsType(t, &MapMarker{}, layers[4])
}

func TestLayersFromGeoJSONRejectsGarbage(t *testing.T) {
	_, err := LayersFromGeoJSON([]byte(`{"type": "bogus"`))
	require.Error(t, err)
}

func TestFormatCoordinate(t *testing.T) {
	tests := []struct {
		lat, lng float64
		expected string
	}{
		{0, 0, `0°00'00.00" N 0°00'00.00" E`},
		{51.5, -0.5, `51°30'00.00" N 0°30'00.00" W`},
		{-33.8688, 151.2093, `33°52'07.68" S 151°12'33.48" E`},
	}

	for _, tt := range tests {
		got := FormatCoordinate(tiles.LatLng{Lat: tt.lat, Lng: tt.lng})
		assert.Equal(t, tt.expected, got)
	}
}
