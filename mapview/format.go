package mapview

import (
	"fmt"
	"math"

	"github.com/mapfx/mappane/tiles"
)

// FormatCoordinate renders a coordinate as degrees, minutes and decimal
// seconds with hemisphere letters, the usual cursor-location readout.
func FormatCoordinate(ll tiles.LatLng) string {
	latHemi := "N"
	if ll.Lat < 0 {
		latHemi = "S"
	}
	lngHemi := "E"
	if ll.Lng < 0 {
		lngHemi = "W"
	}
	return fmt.Sprintf("%s %s %s %s", formatDMS(ll.Lat), latHemi, formatDMS(ll.Lng), lngHemi)
}

func formatDMS(deg float64) string {
	abs := math.Abs(deg)
	d := int(abs)
	minFloat := (abs - float64(d)) * 60
	m := int(minFloat)
	s := (minFloat - float64(m)) * 60
	return fmt.Sprintf("%d°%02d'%05.2f\"", d, m, s)
}
