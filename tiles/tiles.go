// Package tiles supplies decoded raster map tiles to the widget. Providers
// fetch single tiles from a backing store (HTTP tile server, local MBTiles
// database, generated placeholder); the Manager caches decoded tiles in
// memory and fetches misses asynchronously on a bounded worker pool.
package tiles

import (
	"context"
	"fmt"
	"image"

	"github.com/osmgps/gpsmap/geo"
)

// TileSize is the edge length of a tile in pixels.
const TileSize = geo.TileSize

// Tile identifies a map tile by column, row and zoom level.
type Tile struct {
	X, Y, Zoom int
}

// Key returns the canonical zoom/x/y cache key for the tile.
func (t Tile) Key() string {
	return fmt.Sprintf("%d/%d/%d", t.Zoom, t.X, t.Y)
}

// Valid reports whether the tile addresses a cell inside the projected
// world at its zoom level. Panning in pixel space is unbounded, so the
// widget can legitimately ask for tiles beyond the world's edge; those are
// never fetched.
func (t Tile) Valid() bool {
	n := 1 << uint(t.Zoom)
	return t.X >= 0 && t.Y >= 0 && t.X < n && t.Y < n
}

// TileForPixel returns the tile containing the given world pixel. Pixel
// coordinates may be negative; the division floors.
func TileForPixel(zoom, px, py int) Tile {
	return Tile{X: floorDiv(px, TileSize), Y: floorDiv(py, TileSize), Zoom: zoom}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Constrain clamps the tile coordinates to the world bounds for its zoom.
func (t Tile) Constrain() Tile {
	n := 1<<uint(t.Zoom) - 1
	t.X = max(0, min(t.X, n))
	t.Y = max(0, min(t.Y, n))
	return t
}

// Provider fetches a single decoded tile. Implementations are safe for
// concurrent use; the Manager calls them from worker goroutines.
type Provider interface {
	GetTile(ctx context.Context, tile Tile) (image.Image, error)
}
