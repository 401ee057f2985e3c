package tiles

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func writeTestMBTiles(t *testing.T, path string, tile Tile) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE metadata (name text, value text)`,
		`CREATE TABLE tiles (zoom_level integer, tile_column integer, tile_row integer, tile_data blob)`,
		`CREATE UNIQUE INDEX tile_index ON tiles (zoom_level, tile_column, tile_row)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.Exec(`INSERT INTO metadata VALUES ('format', 'png'), ('name', 'test')`); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	row := (1 << uint(tile.Zoom)) - 1 - tile.Y
	if _, err := db.Exec(`INSERT INTO tiles VALUES (?, ?, ?, ?)`,
		tile.Zoom, tile.X, row, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
}

func TestMBTilesProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mbtiles")
	tile := Tile{X: 3, Y: 2, Zoom: 4}
	writeTestMBTiles(t, path, tile)

	p, err := OpenMBTiles(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	if got := p.Metadata("format"); got != "png" {
		t.Errorf("Metadata(format) = %q, want png", got)
	}

	img, err := p.GetTile(context.Background(), tile)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != TileSize {
		t.Errorf("tile width %d, want %d", b.Dx(), TileSize)
	}

	if _, err := p.GetTile(context.Background(), Tile{X: 0, Y: 0, Zoom: 4}); err == nil {
		t.Error("expected an error for a missing tile")
	}
}

func TestOpenMBTilesRejectsNonDatabase(t *testing.T) {
	if _, err := OpenMBTiles(filepath.Join(t.TempDir(), "missing.mbtiles"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}
