package tiles

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// MBTilesProvider reads raster tiles from a local MBTiles database.
//
// MBTiles stores rows in the TMS scheme, with tile_row counted from the
// bottom of the world; slippy-map y coordinates are flipped accordingly.
type MBTilesProvider struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// OpenMBTiles opens the database read-only and verifies the tiles table
// exists.
func OpenMBTiles(path string, log *slog.Logger) (*MBTilesProvider, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("opening mbtiles %s: %w", path, err)
	}
	var n int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = 'tiles'`).Scan(&n)
	if err != nil || n == 0 {
		db.Close()
		return nil, fmt.Errorf("%s is not an mbtiles database", path)
	}
	return &MBTilesProvider{db: db, path: path, log: log}, nil
}

// Metadata returns the value of a key from the metadata table, or "" when
// absent.
func (p *MBTilesProvider) Metadata(key string) string {
	var v string
	if err := p.db.QueryRow(`SELECT value FROM metadata WHERE name = ?`, key).Scan(&v); err != nil {
		return ""
	}
	return v
}

func (p *MBTilesProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	// flip to TMS row numbering
	row := (1 << uint(tile.Zoom)) - 1 - tile.Y

	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?`,
		tile.Zoom, tile.X, row).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tile %s not in %s", tile.Key(), p.path)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tile %s: %w", tile.Key(), err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding tile %s: %w", tile.Key(), err)
	}
	return img, nil
}

// Close releases the underlying database handle.
func (p *MBTilesProvider) Close() error {
	return p.db.Close()
}

var _ Provider = (*MBTilesProvider)(nil)
