package mapview

import (
	"image"
	"testing"

	"github.com/mapfx/mappane/tiles"
)

type stubView struct {
	center image.Point
	zoom   int
	size   image.Point
	source tiles.Source
}

func (s *stubView) Center() image.Point       { return s.center }
func (s *stubView) Zoom() int                 { return s.zoom }
func (s *stubView) ViewportSize() image.Point { return s.size }
func (s *stubView) TileSource() tiles.Source  { return s.source }

func TestIsAllVisible(t *testing.T) {
	tests := []struct {
		name     string
		zoom     int
		size     image.Point
		expected bool
	}{
		{"world smaller than viewport", 1, image.Pt(600, 600), true},
		{"world equals viewport", 1, image.Pt(512, 512), true},
		{"world larger than viewport", 9, image.Pt(600, 600), false},
		{"only one axis fits", 1, image.Pt(600, 400), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubView{center: image.Pt(256, 256), zoom: tt.zoom, size: tt.size}
			checker := NewEdgeChecker(v)
			if got := checker.IsAllVisible(tt.size); got != tt.expected {
				t.Errorf("IsAllVisible = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsOnEdge(t *testing.T) {
	// World at zoom 9 is 131072px; a 600px viewport touches the edge when
	// the center comes within 300px of a border.
	tests := []struct {
		name     string
		center   image.Point
		expected bool
	}{
		{"center of the world", image.Pt(65536, 65536), false},
		{"exactly at the margin", image.Pt(300, 300), false},
		{"past the left margin", image.Pt(299, 65536), true},
		{"past the top margin", image.Pt(65536, 299), true},
		{"past the right margin", image.Pt(131072 - 299, 65536), true},
		{"past the bottom margin", image.Pt(65536, 131072-299), true},
	}

	size := image.Pt(600, 600)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &stubView{center: tt.center, zoom: 9, size: size}
			checker := NewEdgeChecker(v)
			if got := checker.IsOnEdge(size); got != tt.expected {
				t.Errorf("IsOnEdge(center=%v) = %v, want %v", tt.center, got, tt.expected)
			}
		})
	}
}
