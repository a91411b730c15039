package mapview

import "image"

// EdgeChecker decides whether the viewport is pressed against the border of
// the projected world, which is when panning has to stop.
type EdgeChecker struct {
	view Viewport
}

func NewEdgeChecker(view Viewport) *EdgeChecker {
	return &EdgeChecker{view: view}
}

// IsOnEdge reports whether a viewport of the given size around the current
// center would show pixels outside the projected world in any direction.
func (e *EdgeChecker) IsOnEdge(size image.Point) bool {
	world := WorldSize(e.view.Zoom())
	center := e.view.Center()
	left := center.X - size.X/2
	top := center.Y - size.Y/2
	return left < 0 || top < 0 || left+size.X > world || top+size.Y > world
}

// IsAllVisible reports whether the whole projected world fits into a
// viewport of the given size. Panning is pointless then.
func (e *EdgeChecker) IsAllVisible(size image.Point) bool {
	world := WorldSize(e.view.Zoom())
	return world <= size.X && world <= size.Y
}
