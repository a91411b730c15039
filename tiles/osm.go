package tiles

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"time"
)

// OSMSource loads tiles from a slippy-map tile server over HTTP.
type OSMSource struct {
	name        string
	urlTemplate string
	attribution string
	minZoom     int
	maxZoom     int
	client      *http.Client
}

// NewOSMSource returns a source for the public OpenStreetMap tile server.
func NewOSMSource() *OSMSource {
	return &OSMSource{
		name:        "OpenStreetMap",
		urlTemplate: "https://tile.openstreetmap.org/%d/%d/%d.png",
		attribution: "© OpenStreetMap contributors",
		minZoom:     0,
		maxZoom:     19,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewTileServerSource returns a source for any server following the
// z/x/y URL scheme. The template must contain three %d verbs in z, x, y
// order.
func NewTileServerSource(name, urlTemplate, attribution string, minZoom, maxZoom int) *OSMSource {
	return &OSMSource{
		name:        name,
		urlTemplate: urlTemplate,
		attribution: attribution,
		minZoom:     minZoom,
		maxZoom:     maxZoom,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *OSMSource) Name() string              { return s.name }
func (s *OSMSource) TileSize() int             { return TileSize }
func (s *OSMSource) MinZoom() int              { return s.minZoom }
func (s *OSMSource) MaxZoom() int              { return s.maxZoom }
func (s *OSMSource) AttributionRequired() bool { return s.attribution != "" }
func (s *OSMSource) Attribution() string       { return s.attribution }

// TileURL returns the URL for downloading the map tile.
func (s *OSMSource) TileURL(t Tile) string {
	return fmt.Sprintf(s.urlTemplate, t.Zoom, t.X, t.Y)
}

func (s *OSMSource) Load(t Tile) (image.Image, error) {
	url := s.TileURL(t)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for tile %v: %w", t, err)
	}

	// Tile servers reject requests without a browser-like identity.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0")
	req.Header.Set("Accept", "image/webp,*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Referer", "https://www.openstreetmap.org/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tile %v: %w", t, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching tile %v: unexpected status %s", t, resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		log.Printf("error decoding tile image %v: %v", t, err)
		return nil, fmt.Errorf("decoding tile %v: %w", t, err)
	}

	return img, nil
}
