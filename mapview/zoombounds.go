package mapview

import (
	"fmt"

	"github.com/mapfx/mappane/tiles"
)

// Hard zoom bounds for the whole process. No viewport ever zooms outside
// them regardless of what a tile source advertises.
const (
	MinZoom = 0
	MaxZoom = 22
)

// ValidateSourceBounds rejects sources whose zoom range leaves the hard
// bounds. This is a configuration error, reported loudly before any state
// is touched.
func ValidateSourceBounds(src tiles.Source) error {
	if src.MaxZoom() > MaxZoom {
		return fmt.Errorf("tile source %s: maximum zoom level %d above limit %d", src.Name(), src.MaxZoom(), MaxZoom)
	}
	if src.MinZoom() < MinZoom {
		return fmt.Errorf("tile source %s: minimum zoom level %d below limit %d", src.Name(), src.MinZoom(), MinZoom)
	}
	return nil
}

// EffectiveZoomBounds intersects the hard bounds with the source's own.
func EffectiveZoomBounds(src tiles.Source) (min, max int) {
	min = MinZoom
	if src.MinZoom() > min {
		min = src.MinZoom()
	}
	max = MaxZoom
	if src.MaxZoom() < max {
		max = src.MaxZoom()
	}
	return min, max
}
