package mapview

import (
	"image"

	"github.com/paulmach/orb"

	"github.com/mapfx/mappane/tiles"
)

const (
	// defaultSize is the viewport edge length before the first resize.
	defaultSize = 600
	// initialZoom is the starting zoom level.
	initialZoom = 9
)

// MapPane owns the viewport state: center point, zoom, viewport size,
// pending zoom anchor and the ordered overlay layers. Every public mutation
// runs its downstream recomputation steps in a fixed order and finishes
// with at most one render pass; there is no listener graph.
//
// A MapPane is confined to a single goroutine. Asynchronous tile loads
// re-enter through Repaint, which the embedding application calls on the
// pane's goroutine when the repository announces a tile.
type MapPane struct {
	repo     *tiles.Repository
	renderer *TileRenderer
	edge     *EdgeChecker
	canvas   Canvas

	layers      []Renderable
	attribution AttributionOverlay

	// center is always expressed in world pixels for zoom, never oldZoom.
	// Every zoom change re-derives it before the zoom is committed.
	center  image.Point
	zoom    int
	oldZoom int

	minZoom, maxZoom int
	width, height    int

	// zoomCoordinate is the geographic point under the zoom anchor,
	// captured once per zoom gesture and kept across repeated
	// center-anchored zoom steps. Panning or recentering ends the gesture.
	zoomCoordinate *tiles.LatLng

	markersVisible  bool
	polygonsVisible bool

	suppressRender bool
	renderPending  bool
	tilesPrepared  bool
}

type config struct {
	width, height int
	zoom          int
	canvas        Canvas
	workers       int
}

type Option func(*config)

// WithSize sets the initial viewport size in pixels.
func WithSize(width, height int) Option {
	return func(c *config) {
		c.width, c.height = width, height
	}
}

// WithZoom sets the initial zoom level, clamped into the effective bounds.
func WithZoom(zoom int) Option {
	return func(c *config) {
		c.zoom = zoom
	}
}

// WithCanvas replaces the default Gio canvas, mainly for tests.
func WithCanvas(canvas Canvas) Option {
	return func(c *config) {
		c.canvas = canvas
	}
}

// WithAsyncLoading loads tiles on a worker pool instead of inline. Required
// for network sources; without it the first render pass blocks on Load.
func WithAsyncLoading(workers int) Option {
	return func(c *config) {
		c.workers = workers
	}
}

// New creates a map pane for the given tile source, centered on (0°, 0°).
// A source whose zoom bounds leave the hard bounds is rejected before any
// state is built.
func New(source tiles.Source, opts ...Option) (*MapPane, error) {
	if err := ValidateSourceBounds(source); err != nil {
		return nil, err
	}

	cfg := config{width: defaultSize, height: defaultSize, zoom: initialZoom}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.canvas == nil {
		cfg.canvas = NewGioCanvas()
	}

	var repoOpts []tiles.RepositoryOption
	if cfg.workers > 0 {
		repoOpts = append(repoOpts, tiles.WithWorkers(cfg.workers))
	}
	repo := tiles.NewRepository(source, repoOpts...)

	m := &MapPane{
		repo:            repo,
		canvas:          cfg.canvas,
		width:           cfg.width,
		height:          cfg.height,
		markersVisible:  true,
		polygonsVisible: true,
	}
	m.renderer = NewTileRenderer(repo)
	m.edge = NewEdgeChecker(m)
	m.minZoom, m.maxZoom = EffectiveZoomBounds(source)
	m.zoom = clamp(cfg.zoom, m.minZoom, m.maxZoom)
	m.oldZoom = m.zoom

	m.CenterMap()
	return m, nil
}

// Viewport accessors.

func (m *MapPane) Center() image.Point       { return m.center }
func (m *MapPane) Zoom() int                 { return m.zoom }
func (m *MapPane) ViewportSize() image.Point { return image.Pt(m.width, m.height) }
func (m *MapPane) TileSource() tiles.Source  { return m.repo.Source() }
func (m *MapPane) MinZoom() int              { return m.minZoom }
func (m *MapPane) MaxZoom() int              { return m.maxZoom }

// Repository exposes the tile repository, e.g. to register the tile-loaded
// callback.
func (m *MapPane) Repository() *tiles.Repository { return m.repo }

// Canvas returns the render target the pane draws to.
func (m *MapPane) Canvas() Canvas { return m.canvas }

// Coordinate returns the geographic coordinate under a viewport point at
// the current zoom.
func (m *MapPane) Coordinate(p image.Point) tiles.LatLng {
	return ToCoordinate(p, m.center, m.ViewportSize(), m.zoom)
}

// IsMapMoveable reports whether panning can move the map at all; it cannot
// when the whole world already fits the viewport.
func (m *MapPane) IsMapMoveable() bool {
	return !m.edge.IsAllVisible(m.ViewportSize())
}

// IsOnEdge reports whether the viewport currently touches the world border.
func (m *MapPane) IsOnEdge() bool {
	return m.edge.IsOnEdge(m.ViewportSize())
}

// MoveMap shifts the center by (dx, dy) viewport pixels. A move that would
// show pixels beyond the world border is reverted to the last valid center;
// the pan simply stops at the edge.
func (m *MapPane) MoveMap(dx, dy int) {
	m.zoomCoordinate = nil

	previous := m.center
	m.center = m.center.Add(image.Pt(dx, dy))

	if m.prepareTiles() > 0 && !m.IsOnEdge() {
		m.tilesPrepared = true
	} else {
		m.center = previous
		m.prepareTiles()
	}

	m.renderControl()
}

// SetZoom zooms anchored at the viewport center. Requests outside the
// effective bounds or equal to the current zoom are ignored. The anchor
// coordinate is captured on the first step of a gesture and reused by
// subsequent steps until a pan or recenter ends the gesture.
func (m *MapPane) SetZoom(zoom int) {
	if !m.validZoom(zoom) {
		return
	}
	anchor := m.viewportCenterPoint()
	if m.zoomCoordinate == nil {
		ll := m.Coordinate(anchor)
		m.zoomCoordinate = &ll
	}
	m.applyZoom(anchor, *m.zoomCoordinate, zoom)
}

func (m *MapPane) ZoomIn()  { m.SetZoom(m.zoom + 1) }
func (m *MapPane) ZoomOut() { m.SetZoom(m.zoom - 1) }

// ZoomAtPoint zooms by delta anchored at the given viewport point: the
// geographic coordinate under the point stays under it. Each call captures
// a fresh anchor, so independent scroll gestures do not share state.
func (m *MapPane) ZoomAtPoint(p image.Point, delta int) {
	zoom := m.zoom + delta
	if !m.validZoom(zoom) {
		return
	}
	ll := m.Coordinate(p)
	m.zoomCoordinate = nil
	m.applyZoom(p, ll, zoom)
}

// CenterOn moves the given coordinate under the viewport center at the
// current zoom.
func (m *MapPane) CenterOn(ll tiles.LatLng) {
	m.zoomCoordinate = nil
	world := image.Pt(LonToX(ll.Lng, m.zoom), LatToY(ll.Lat, m.zoom))
	m.setDisplayPosition(m.viewportCenterPoint(), world, m.zoom)
}

// CenterMap centers the viewport on (0°, 0°).
func (m *MapPane) CenterMap() {
	m.CenterOn(tiles.LatLng{})
}

// FitToMarkers picks the highest zoom at which all marker layers fit the
// viewport and recenters on their midpoint. Without marker layers it is a
// no-op.
func (m *MapPane) FitToMarkers() {
	maxZ := m.repo.Source().MaxZoom()

	first := true
	var xMin, yMin, xMax, yMax int
	for _, layer := range m.layers {
		mk, ok := layer.(Markable)
		if !ok {
			continue
		}
		pos := mk.Position()
		x := LonToX(pos.Lng, maxZ)
		y := LatToY(clampLat(pos.Lat), maxZ)
		if first {
			xMin, xMax, yMin, yMax = x, x, y, y
			first = false
			continue
		}
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
	}
	if first {
		return
	}
	m.fitToBox(xMin, yMin, xMax, yMax, maxZ)
}

// FitToLayers fits the union of all bounded layers' geometry, markers and
// geometry layers alike. Without bounded layers it is a no-op.
func (m *MapPane) FitToLayers() {
	var bound orb.Bound
	found := false
	for _, layer := range m.layers {
		b, ok := layer.(Bounded)
		if !ok {
			continue
		}
		if !found {
			bound = b.Bound()
			found = true
		} else {
			bound = bound.Union(b.Bound())
		}
	}
	if !found {
		return
	}

	maxZ := m.repo.Source().MaxZoom()
	xMin := LonToX(bound.Min.Lon(), maxZ)
	xMax := LonToX(bound.Max.Lon(), maxZ)
	// North edge projects to the smaller world Y.
	yMin := LatToY(clampLat(bound.Max.Lat()), maxZ)
	yMax := LatToY(clampLat(bound.Min.Lat()), maxZ)
	m.fitToBox(xMin, yMin, xMax, yMax, maxZ)
}

// SetViewportSize resizes the viewport. The geographic coordinate under the
// center stays put; only the visible margin changes.
func (m *MapPane) SetViewportSize(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.renderControl()
}

// BeginUpdate suppresses rendering so a batch of mutations coalesces into
// one render pass, run by EndUpdate.
func (m *MapPane) BeginUpdate() {
	m.suppressRender = true
}

// EndUpdate leaves the batch scope and runs the single deferred render pass
// if any suppressed mutation asked for one.
func (m *MapPane) EndUpdate() {
	if !m.suppressRender {
		return
	}
	m.suppressRender = false
	if m.renderPending {
		m.renderPending = false
		m.renderControl()
	}
}

// SetTileSource swaps the tile source. Sources with zoom bounds outside the
// hard limits are rejected without touching any state. The current zoom is
// clamped into the new effective bounds, re-deriving the center so the
// coordinate under the viewport center survives the clamp.
func (m *MapPane) SetTileSource(source tiles.Source) error {
	if err := ValidateSourceBounds(source); err != nil {
		return err
	}

	// Capture before the swap; the clamp below needs the old projection.
	centerCoord := m.Coordinate(m.viewportCenterPoint())

	m.repo.SetSource(source)
	m.renderer.Invalidate()
	m.tilesPrepared = false
	m.minZoom, m.maxZoom = EffectiveZoomBounds(source)

	clamped := clamp(m.zoom, m.minZoom, m.maxZoom)
	if clamped != m.zoom {
		m.oldZoom = m.zoom
		world := image.Pt(LonToX(centerCoord.Lng, clamped), LatToY(clampLat(centerCoord.Lat), clamped))
		m.moveCenter(m.viewportCenterPoint(), world)
		m.zoom = clamped
	}

	m.renderControl()
	return nil
}

// RefreshMap reloads the whole map: tiles are re-requested and tiles,
// layers and attribution are redrawn unconditionally.
func (m *MapPane) RefreshMap() {
	m.renderer.Invalidate()
	m.prepareTiles()
	m.tilesPrepared = false

	m.canvas.Begin()
	m.renderer.Render(m.canvas)
	m.renderMapLayers()
	m.renderAttribution()
	m.canvas.End()
}

// Repaint runs a normal render pass, picking up tiles that became ready
// since the last one. Call it on the pane's goroutine when the repository
// announces a loaded tile.
func (m *MapPane) Repaint() {
	m.tilesPrepared = false
	m.renderControl()
}

// SetMonochrome toggles grayscale tile drawing.
func (m *MapPane) SetMonochrome(v bool) {
	if m.renderer.Monochrome() == v {
		return
	}
	m.renderer.SetMonochrome(v)
	m.renderControl()
}

// SetTileGridVisible toggles the frame drawn around each tile.
func (m *MapPane) SetTileGridVisible(v bool) {
	if m.renderer.TileGridVisible() == v {
		return
	}
	m.renderer.SetTileGridVisible(v)
	m.renderControl()
}

// AddMapLayer appends an overlay layer. Layers draw in insertion order;
// adding the same layer twice draws it twice.
func (m *MapPane) AddMapLayer(layer Renderable) {
	m.layers = append(m.layers, layer)
	m.renderControl()
}

// RemoveMapLayer removes the first layer identical to the given one.
func (m *MapPane) RemoveMapLayer(layer Renderable) {
	for i, l := range m.layers {
		if l == layer {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.renderControl()
			return
		}
	}
}

// MapLayers returns the layers in draw order.
func (m *MapPane) MapLayers() []Renderable { return m.layers }

// SetMapMarkersVisible toggles marker and line layers.
func (m *MapPane) SetMapMarkersVisible(v bool) {
	if m.markersVisible == v {
		return
	}
	m.markersVisible = v
	m.renderControl()
}

func (m *MapPane) IsMapMarkersVisible() bool { return m.markersVisible }

// SetMapPolygonsVisible toggles polygon layers.
func (m *MapPane) SetMapPolygonsVisible(v bool) {
	if m.polygonsVisible == v {
		return
	}
	m.polygonsVisible = v
	m.renderControl()
}

func (m *MapPane) IsMapPolygonsVisible() bool { return m.polygonsVisible }

// internals

func (m *MapPane) validZoom(zoom int) bool {
	return zoom != m.zoom && zoom >= m.minZoom && zoom <= m.maxZoom
}

func (m *MapPane) viewportCenterPoint() image.Point {
	return image.Pt(m.width/2, m.height/2)
}

// applyZoom re-derives the center so the anchor point keeps showing the
// anchor coordinate, then commits the new zoom. The order matters: center
// must be in new-zoom world pixels before zoom changes.
func (m *MapPane) applyZoom(anchor image.Point, ll tiles.LatLng, zoom int) {
	m.oldZoom = m.zoom
	world := image.Pt(LonToX(ll.Lng, zoom), LatToY(clampLat(ll.Lat), zoom))
	m.moveCenter(anchor, world)
	m.zoom = zoom
	m.renderControl()
}

// moveCenter places the center so that world shows at the anchor point.
func (m *MapPane) moveCenter(anchor, world image.Point) {
	m.center = image.Pt(
		world.X-anchor.X+m.width/2,
		world.Y-anchor.Y+m.height/2,
	)
}

// setDisplayPosition shows the world pixel at the anchor point, switching
// to the given zoom when it differs and lies within bounds. Recentering at
// the current zoom always goes through.
func (m *MapPane) setDisplayPosition(anchor, world image.Point, zoom int) {
	if zoom == m.zoom {
		m.moveCenter(anchor, world)
		m.renderControl()
		return
	}
	if zoom >= m.minZoom && zoom <= m.maxZoom {
		m.oldZoom = m.zoom
		m.moveCenter(anchor, world)
		m.zoom = zoom
		m.renderControl()
	}
}

// fitToBox implements the shared part of the fit operations: shrink the box
// by zoom steps until it fits the viewport, then recenter on its midpoint.
// Box coordinates are world pixels at maxZ.
func (m *MapPane) fitToBox(xMin, yMin, xMax, yMax, maxZ int) {
	width := max(0, m.width)
	height := max(0, m.height)

	newZoom := maxZ
	x := xMax - xMin
	y := yMax - yMin
	for (x > width || y > height) && newZoom > m.minZoom {
		newZoom--
		x >>= 1
		y >>= 1
	}

	cx := xMin + (xMax-xMin)/2
	cy := yMin + (yMax-yMin)/2
	shift := maxZ - newZoom
	cx >>= shift
	cy >>= shift

	m.zoomCoordinate = nil
	m.setDisplayPosition(m.viewportCenterPoint(), image.Pt(cx, cy), newZoom)
}

func (m *MapPane) prepareTiles() int {
	return m.renderer.PrepareTiles(m)
}

// renderControl is the single render entry point: it honors the batch
// suppression flag and only repaints layers and attribution when the tile
// pass actually changed something.
func (m *MapPane) renderControl() {
	if m.suppressRender {
		m.renderPending = true
		return
	}

	if m.renderMap() {
		m.renderMapLayers()
		m.renderAttribution()
		m.canvas.End()
	}
}

// renderMap draws the tile mosaic and reports whether a new pass was
// recorded. When tiles were prepared by the calling mutation they are drawn
// as-is; otherwise a fresh preparation decides whether there is anything to
// draw at all.
func (m *MapPane) renderMap() bool {
	updated := false

	if !m.tilesPrepared {
		if m.prepareTiles() > 0 {
			updated = true
		}
	} else {
		updated = true
	}
	m.tilesPrepared = false

	if updated {
		m.canvas.Begin()
		m.renderer.Render(m.canvas)
	}
	return updated
}

func (m *MapPane) renderMapLayers() {
	for _, layer := range m.layers {
		if m.layerEnabled(layer.Kind()) {
			layer.Render(m, m.canvas)
		}
	}
}

func (m *MapPane) layerEnabled(kind LayerKind) bool {
	switch kind {
	case LayerPolygon:
		return m.polygonsVisible
	case LayerMarker, LayerLine:
		return m.markersVisible
	default:
		return true
	}
}

func (m *MapPane) renderAttribution() {
	if m.repo.Source().AttributionRequired() {
		m.attribution.Render(m, m.canvas)
	}
}

func clampLat(lat float64) float64 {
	return max(-tiles.MaxLatitude, min(lat, tiles.MaxLatitude))
}
