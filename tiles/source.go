package tiles

import "image"

// Source describes a tile set and knows how to load single tiles from it.
// Load blocks; callers that must not block go through a Repository instead.
type Source interface {
	Name() string
	TileSize() int
	MinZoom() int
	MaxZoom() int
	AttributionRequired() bool
	Attribution() string
	Load(t Tile) (image.Image, error)
}
