package mapview

import (
	"image"
	"image/color"

	"github.com/paulmach/orb"

	"github.com/mapfx/mappane/tiles"
)

// LayerKind tags a layer's capability at construction time. Visibility
// resolution is a single switch on the tag.
type LayerKind uint8

const (
	// LayerGeneric layers are always drawn.
	LayerGeneric LayerKind = iota
	LayerMarker
	LayerLine
	LayerPolygon
)

// Renderable is one overlay layer. Layers are drawn in insertion order on
// top of the tile mosaic.
type Renderable interface {
	Kind() LayerKind
	Render(v Viewport, c Canvas)
}

// Markable is implemented by layers anchored at a single coordinate; the
// fit-to-markers operation collects them.
type Markable interface {
	Position() tiles.LatLng
}

// Bounded is implemented by layers with a geographic extent; the
// fit-to-layers operation unions them.
type Bounded interface {
	Bound() orb.Bound
}

// MapMarker is a filled dot at a geographic position.
type MapMarker struct {
	Pos    tiles.LatLng
	Radius int
	Color  color.NRGBA
}

func NewMapMarker(lat, lng float64) *MapMarker {
	return &MapMarker{
		Pos:    tiles.LatLng{Lat: lat, Lng: lng},
		Radius: 6,
		Color:  color.NRGBA{R: 214, G: 39, B: 40, A: 255},
	}
}

func (m *MapMarker) Kind() LayerKind        { return LayerMarker }
func (m *MapMarker) Position() tiles.LatLng { return m.Pos }
func (m *MapMarker) Bound() orb.Bound {
	return orb.Bound{Min: m.Pos.Point(), Max: m.Pos.Point()}
}

func (m *MapMarker) Render(v Viewport, c Canvas) {
	p := CoordinateToViewport(m.Pos, v.Center(), v.ViewportSize(), v.Zoom())
	c.FillCircle(p, m.Radius, m.Color)
}

// MapLine is a polyline over geographic vertices.
type MapLine struct {
	Line  orb.LineString
	Width float32
	Color color.NRGBA
}

func NewMapLine(line orb.LineString) *MapLine {
	return &MapLine{
		Line:  line,
		Width: 2,
		Color: color.NRGBA{R: 31, G: 119, B: 180, A: 255},
	}
}

func (l *MapLine) Kind() LayerKind  { return LayerLine }
func (l *MapLine) Bound() orb.Bound { return l.Line.Bound() }

func (l *MapLine) Render(v Viewport, c Canvas) {
	c.StrokeLine(projectPoints(l.Line, v), l.Color, l.Width)
}

// MapPolygon is a filled ring with an outline.
type MapPolygon struct {
	Ring    orb.Ring
	Fill    color.NRGBA
	Outline color.NRGBA
	Width   float32
}

func NewMapPolygon(ring orb.Ring) *MapPolygon {
	return &MapPolygon{
		Ring:    ring,
		Fill:    color.NRGBA{R: 44, G: 160, B: 44, A: 90},
		Outline: color.NRGBA{R: 44, G: 160, B: 44, A: 255},
		Width:   2,
	}
}

func (p *MapPolygon) Kind() LayerKind  { return LayerPolygon }
func (p *MapPolygon) Bound() orb.Bound { return p.Ring.Bound() }

func (p *MapPolygon) Render(v Viewport, c Canvas) {
	pts := projectPoints(orb.LineString(p.Ring), v)
	c.FillPolygon(pts, p.Fill)
	if len(pts) > 1 {
		outline := pts
		if !p.Ring.Closed() {
			outline = append(append([]image.Point{}, pts...), pts[0])
		}
		c.StrokeLine(outline, p.Outline, p.Width)
	}
}

// AttributionOverlay renders the tile source attribution in the lower left
// corner. The pane draws it after all layers when the source requires it.
type AttributionOverlay struct{}

func (a *AttributionOverlay) Kind() LayerKind { return LayerGeneric }

func (a *AttributionOverlay) Render(v Viewport, c Canvas) {
	text := v.TileSource().Attribution()
	if text == "" {
		return
	}
	size := v.ViewportSize()
	at := image.Pt(6, size.Y-20)
	bg := image.Rect(at.X-3, at.Y-3, at.X+7*len(text)+3, at.Y+16)
	c.FillRect(bg, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	c.DrawLabel(text, at, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
}

func projectPoints(line orb.LineString, v Viewport) []image.Point {
	center, size, zoom := v.Center(), v.ViewportSize(), v.Zoom()
	pts := make([]image.Point, len(line))
	for i, pt := range line {
		ll := tiles.LatLng{Lat: pt.Lat(), Lng: pt.Lon()}
		pts[i] = CoordinateToViewport(ll, center, size, zoom)
	}
	return pts
}
