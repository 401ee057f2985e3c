package tiles

import (
	"context"
	"fmt"
	"image"
)

// Combined serves tiles from a primary provider, falling back to a secondary
// one when the primary fails. A typical pairing is OSM over HTTP backed by
// generated placeholders for offline use.
type Combined struct {
	primary  Provider
	fallback Provider
}

func NewCombined(primary, fallback Provider) *Combined {
	return &Combined{primary: primary, fallback: fallback}
}

func (c *Combined) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	img, err := c.primary.GetTile(ctx, tile)
	if err == nil {
		return img, nil
	}

	img, ferr := c.fallback.GetTile(ctx, tile)
	if ferr != nil {
		return nil, fmt.Errorf("primary and fallback providers failed: %w", ferr)
	}
	return img, nil
}

var _ Provider = (*Combined)(nil)
