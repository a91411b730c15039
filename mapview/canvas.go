package mapview

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Canvas is the render target for one pass: tile images at viewport-pixel
// positions plus overlay primitives. A pass is bracketed by Begin and End;
// content drawn outside a pass is discarded.
type Canvas interface {
	Begin()
	DrawTile(img image.Image, at image.Point)
	FillRect(r image.Rectangle, col color.NRGBA)
	StrokeRect(r image.Rectangle, col color.NRGBA, width float32)
	StrokeLine(pts []image.Point, col color.NRGBA, width float32)
	FillPolygon(pts []image.Point, col color.NRGBA)
	FillCircle(center image.Point, radius int, col color.NRGBA)
	DrawLabel(text string, at image.Point, col color.NRGBA)
	End()
}

// GioCanvas records render passes as a Gio macro and replays the latest
// complete pass into the frame with Add. The zero value is ready to use.
type GioCanvas struct {
	ops   op.Ops
	macro op.MacroOp
	call  op.CallOp

	// imgOps holds the upload op per image drawn in the last completed
	// pass; End replaces it with the current pass's set, so uploads for
	// tiles and labels that are no longer drawn get dropped.
	imgOps map[image.Image]paint.ImageOp
	used   map[image.Image]paint.ImageOp

	// labels keeps rasterized label images under the same retention rule,
	// so redrawing the same text reuses both bitmap and upload.
	labels     map[labelKey]*image.RGBA
	usedLabels map[labelKey]*image.RGBA
}

type labelKey struct {
	text string
	col  color.NRGBA
}

func NewGioCanvas() *GioCanvas {
	return &GioCanvas{}
}

// Add replays the last completed pass into the frame operation list.
func (c *GioCanvas) Add(ops *op.Ops) {
	c.call.Add(ops)
}

func (c *GioCanvas) Begin() {
	c.ops.Reset()
	c.used = make(map[image.Image]paint.ImageOp)
	c.usedLabels = make(map[labelKey]*image.RGBA)
	c.macro = op.Record(&c.ops)
}

func (c *GioCanvas) End() {
	c.call = c.macro.Stop()
	c.imgOps = c.used
	c.labels = c.usedLabels
}

func (c *GioCanvas) DrawTile(img image.Image, at image.Point) {
	t := op.Offset(at).Push(&c.ops)
	c.imageOp(img).Add(&c.ops)
	paint.PaintOp{}.Add(&c.ops)
	t.Pop()
}

func (c *GioCanvas) imageOp(img image.Image) paint.ImageOp {
	if c.used == nil {
		c.used = make(map[image.Image]paint.ImageOp)
	}
	if imgOp, ok := c.used[img]; ok {
		return imgOp
	}
	imgOp, ok := c.imgOps[img]
	if !ok {
		imgOp = paint.NewImageOp(img)
	}
	c.used[img] = imgOp
	return imgOp
}

func (c *GioCanvas) FillRect(r image.Rectangle, col color.NRGBA) {
	paint.FillShape(&c.ops, col, clip.Rect(r).Op())
}

func (c *GioCanvas) StrokeRect(r image.Rectangle, col color.NRGBA, width float32) {
	paint.FillShape(&c.ops, col, clip.Stroke{
		Path:  clip.Rect(r).Path(),
		Width: width,
	}.Op())
}

func (c *GioCanvas) StrokeLine(pts []image.Point, col color.NRGBA, width float32) {
	if len(pts) < 2 {
		return
	}
	var p clip.Path
	p.Begin(&c.ops)
	p.MoveTo(f32Pt(pts[0]))
	for _, q := range pts[1:] {
		p.LineTo(f32Pt(q))
	}
	paint.FillShape(&c.ops, col, clip.Stroke{
		Path:  p.End(),
		Width: width,
	}.Op())
}

func (c *GioCanvas) FillPolygon(pts []image.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	var p clip.Path
	p.Begin(&c.ops)
	p.MoveTo(f32Pt(pts[0]))
	for _, q := range pts[1:] {
		p.LineTo(f32Pt(q))
	}
	p.Close()
	paint.FillShape(&c.ops, col, clip.Outline{Path: p.End()}.Op())
}

func (c *GioCanvas) FillCircle(center image.Point, radius int, col color.NRGBA) {
	bounds := image.Rect(center.X-radius, center.Y-radius, center.X+radius, center.Y+radius)
	paint.FillShape(&c.ops, col, clip.Ellipse(bounds).Op(&c.ops))
}

func (c *GioCanvas) DrawLabel(text string, at image.Point, col color.NRGBA) {
	if text == "" {
		return
	}
	if c.usedLabels == nil {
		c.usedLabels = make(map[labelKey]*image.RGBA)
	}
	key := labelKey{text: text, col: col}
	img, ok := c.usedLabels[key]
	if !ok {
		if img, ok = c.labels[key]; !ok {
			img = RenderLabel(text, col)
		}
		c.usedLabels[key] = img
	}
	c.DrawTile(img, at)
}

func f32Pt(p image.Point) f32.Point {
	return f32.Pt(float32(p.X), float32(p.Y))
}

// RenderLabel rasterizes a single text line with the basic fixed font.
// Gio's text shaper needs a theme and a shaper cache; for short overlay
// labels the bitmap font is enough.
func RenderLabel(text string, col color.NRGBA) *image.RGBA {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Src:  image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: col.A}),
		Face: face,
	}
	width := d.MeasureString(text).Round()
	ascent := face.Metrics().Ascent.Round()
	height := face.Metrics().Height.Round()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	d.Dst = img
	d.Dot = fixed.Point26_6{X: 0, Y: fixed.I(ascent)}
	d.DrawString(text)
	return img
}
