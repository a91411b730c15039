package mapview

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"

	"github.com/mapfx/mappane/tiles"
)

var gridColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}

type preparedTile struct {
	tile tiles.Tile
	pos  image.Point // viewport pixels, top-left corner of the tile
	img  image.Image
}

// TileRenderer schedules and draws the tile mosaic. PrepareTiles selects
// and requests the visible tile set, Render draws whatever was prepared.
// Monochrome and grid are draw modes only; they never change tile
// selection.
type TileRenderer struct {
	repo        *tiles.Repository
	prepared    []preparedTile
	monochrome  bool
	gridVisible bool
	monoFilter  *gift.GIFT
	monoCache   map[string]image.Image
}

func NewTileRenderer(repo *tiles.Repository) *TileRenderer {
	return &TileRenderer{
		repo:       repo,
		monoFilter: gift.New(gift.Grayscale()),
		monoCache:  make(map[string]image.Image),
	}
}

// PrepareTiles computes the rectangular tile range intersecting the
// viewport, requests every tile in it and records the placement of the ones
// that are ready. It returns the number of tiles available for drawing;
// zero means nothing to draw yet. Pending tiles are skipped this pass and
// arrive through the repository callback.
func (r *TileRenderer) PrepareTiles(v Viewport) int {
	r.prepared = r.prepared[:0]

	size := v.ViewportSize()
	if size.X <= 0 || size.Y <= 0 {
		return 0
	}

	zoom := v.Zoom()
	topLeft := v.Center().Sub(size.Div(2))
	view := image.Rectangle{Min: topLeft, Max: topLeft.Add(size)}
	if !view.Overlaps(image.Rect(0, 0, WorldSize(zoom), WorldSize(zoom))) {
		return 0
	}
	maxTile := (1 << zoom) - 1

	x0 := clamp(topLeft.X/tiles.TileSize, 0, maxTile)
	y0 := clamp(topLeft.Y/tiles.TileSize, 0, maxTile)
	x1 := clamp((topLeft.X+size.X-1)/tiles.TileSize, 0, maxTile)
	y1 := clamp((topLeft.Y+size.Y-1)/tiles.TileSize, 0, maxTile)

	count := 0
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			t := tiles.Tile{X: x, Y: y, Zoom: zoom}
			img, ok := r.repo.Get(t)
			if !ok {
				continue
			}
			r.prepared = append(r.prepared, preparedTile{
				tile: t,
				pos:  image.Pt(x*tiles.TileSize-topLeft.X, y*tiles.TileSize-topLeft.Y),
				img:  img,
			})
			count++
		}
	}
	return count
}

// Render draws every prepared tile at its recorded position. It is
// idempotent and never requests tiles.
func (r *TileRenderer) Render(c Canvas) {
	for _, e := range r.prepared {
		img := e.img
		if r.monochrome {
			img = r.monochromeImage(e)
		}
		c.DrawTile(img, e.pos)

		if r.gridVisible {
			frame := image.Rectangle{Min: e.pos, Max: e.pos.Add(image.Pt(tiles.TileSize, tiles.TileSize))}
			c.StrokeRect(frame, gridColor, 1)
		}
	}
}

// Invalidate drops all prepared state so the next PrepareTiles starts from
// scratch. Used for the full-reload path.
func (r *TileRenderer) Invalidate() {
	r.prepared = r.prepared[:0]
	r.monoCache = make(map[string]image.Image)
}

// PreparedCount returns how many tiles the last PrepareTiles left ready.
func (r *TileRenderer) PreparedCount() int {
	return len(r.prepared)
}

func (r *TileRenderer) SetMonochrome(v bool) {
	r.monochrome = v
	if !v {
		r.monoCache = make(map[string]image.Image)
	}
}

func (r *TileRenderer) Monochrome() bool { return r.monochrome }

func (r *TileRenderer) SetTileGridVisible(v bool) {
	r.gridVisible = v
}

func (r *TileRenderer) TileGridVisible() bool { return r.gridVisible }

func (r *TileRenderer) monochromeImage(e preparedTile) image.Image {
	key := e.tile.Key()
	if img, ok := r.monoCache[key]; ok {
		return img
	}
	dst := image.NewRGBA(r.monoFilter.Bounds(e.img.Bounds()))
	r.monoFilter.Draw(dst, e.img)
	r.monoCache[key] = dst
	return dst
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
