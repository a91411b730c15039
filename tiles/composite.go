package tiles

import "image"

// CompositeSource serves tiles from a primary source and falls back to a
// secondary one when the primary fails. Metadata comes from the primary.
type CompositeSource struct {
	primary  Source
	fallback Source
}

func NewCompositeSource(primary, fallback Source) *CompositeSource {
	return &CompositeSource{primary: primary, fallback: fallback}
}

func (s *CompositeSource) Name() string              { return s.primary.Name() }
func (s *CompositeSource) TileSize() int             { return s.primary.TileSize() }
func (s *CompositeSource) MinZoom() int              { return s.primary.MinZoom() }
func (s *CompositeSource) MaxZoom() int              { return s.primary.MaxZoom() }
func (s *CompositeSource) AttributionRequired() bool { return s.primary.AttributionRequired() }
func (s *CompositeSource) Attribution() string       { return s.primary.Attribution() }

func (s *CompositeSource) Load(t Tile) (image.Image, error) {
	img, err := s.primary.Load(t)
	if err == nil {
		return img, nil
	}
	return s.fallback.Load(t)
}
