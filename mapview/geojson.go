package mapview

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LayersFromGeoJSON builds overlay layers from a GeoJSON feature
// collection: points become markers, line strings become lines, polygon
// rings become polygon layers. Unsupported geometry types are skipped.
func LayersFromGeoJSON(data []byte) ([]Renderable, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geojson: %w", err)
	}

	var layers []Renderable
	for _, f := range fc.Features {
		layers = append(layers, layersFromGeometry(f.Geometry)...)
	}
	return layers, nil
}

func layersFromGeometry(g orb.Geometry) []Renderable {
	switch geom := g.(type) {
	case orb.Point:
		return []Renderable{NewMapMarker(geom.Lat(), geom.Lon())}
	case orb.MultiPoint:
		layers := make([]Renderable, 0, len(geom))
		for _, p := range geom {
			layers = append(layers, NewMapMarker(p.Lat(), p.Lon()))
		}
		return layers
	case orb.LineString:
		return []Renderable{NewMapLine(geom)}
	case orb.MultiLineString:
		layers := make([]Renderable, 0, len(geom))
		for _, ls := range geom {
			layers = append(layers, NewMapLine(ls))
		}
		return layers
	case orb.Polygon:
		layers := make([]Renderable, 0, len(geom))
		for _, ring := range geom {
			layers = append(layers, NewMapPolygon(ring))
		}
		return layers
	case orb.MultiPolygon:
		var layers []Renderable
		for _, poly := range geom {
			for _, ring := range poly {
				layers = append(layers, NewMapPolygon(ring))
			}
		}
		return layers
	case orb.Collection:
		var layers []Renderable
		for _, sub := range geom {
			layers = append(layers, layersFromGeometry(sub)...)
		}
		return layers
	default:
		return nil
	}
}
