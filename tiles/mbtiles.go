package tiles

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// MBTilesSource reads raster tiles from an MBTiles database on disk.
// Zoom bounds and attribution come from the metadata table.
type MBTilesSource struct {
	db          *sql.DB
	name        string
	attribution string
	minZoom     int
	maxZoom     int
}

// OpenMBTiles opens an MBTiles database read-only and loads its metadata.
func OpenMBTiles(path string) (*MBTilesSource, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("opening mbtiles %s: %w", path, err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='tiles'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("verifying mbtiles schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("%s does not contain a tiles table", path)
	}

	s := &MBTilesSource{db: db, name: path, minZoom: 0, maxZoom: 18}
	if err := s.readMetadata(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MBTilesSource) readMetadata() error {
	rows, err := s.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		// The metadata table is optional; keep the defaults.
		return nil
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return fmt.Errorf("scanning mbtiles metadata: %w", err)
		}
		meta[name] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading mbtiles metadata: %w", err)
	}

	if v := strings.TrimSpace(meta["name"]); v != "" {
		s.name = v
	}
	s.attribution = meta["attribution"]
	if v, ok := meta["minzoom"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			s.minZoom = i
		}
	}
	if v, ok := meta["maxzoom"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			s.maxZoom = i
		}
	}
	return nil
}

func (s *MBTilesSource) Name() string              { return s.name }
func (s *MBTilesSource) TileSize() int             { return TileSize }
func (s *MBTilesSource) MinZoom() int              { return s.minZoom }
func (s *MBTilesSource) MaxZoom() int              { return s.maxZoom }
func (s *MBTilesSource) AttributionRequired() bool { return s.attribution != "" }
func (s *MBTilesSource) Attribution() string       { return s.attribution }

func (s *MBTilesSource) Load(t Tile) (image.Image, error) {
	// MBTiles stores rows in TMS order, flipped against XYZ.
	tmsY := (1 << t.Zoom) - 1 - t.Y

	var data []byte
	err := s.db.QueryRow(
		"SELECT tile_data FROM tiles WHERE zoom_level=? AND tile_column=? AND tile_row=?",
		t.Zoom, t.X, tmsY,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tile not found: %v", t)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tile %v: %w", t, err)
	}

	if isGzip(data) {
		data, err = gzipDecompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing tile %v: %w", t, err)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding tile %v: %w", t, err)
	}
	return img, nil
}

// Close closes the underlying database.
func (s *MBTilesSource) Close() error {
	return s.db.Close()
}

func isGzip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()
	return io.ReadAll(gr)
}
