package tiles

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTileURL is the OpenStreetMap standard tile layer.
const DefaultTileURL = "https://tile.openstreetmap.org/%d/%d/%d.png"

// OSMProvider downloads tiles from a slippy-map HTTP tile server.
type OSMProvider struct {
	client *http.Client
	url    string
	log    *slog.Logger
}

// NewOSMProvider returns a provider fetching from the given URL template,
// a fmt pattern with %d verbs for zoom, x and y. An empty template selects
// the OpenStreetMap standard layer.
func NewOSMProvider(urlTemplate string, log *slog.Logger) *OSMProvider {
	if urlTemplate == "" {
		urlTemplate = DefaultTileURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &OSMProvider{
		client: &http.Client{Timeout: 30 * time.Second},
		url:    urlTemplate,
		log:    log,
	}
}

// TileURL returns the download URL for the given tile.
func (p *OSMProvider) TileURL(tile Tile) string {
	return fmt.Sprintf(p.url, tile.Zoom, tile.X, tile.Y)
}

func (p *OSMProvider) GetTile(ctx context.Context, tile Tile) (image.Image, error) {
	url := p.TileURL(tile)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "gpsmap/1.0 (+https://github.com/osmgps/gpsmap)")
	req.Header.Set("Accept", "image/webp,image/png,*/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching tile %s: %w", tile.Key(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching tile %s: unexpected status %s", tile.Key(), resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding tile %s: %w", tile.Key(), err)
	}

	p.log.Debug("fetched tile", "tile", tile.Key(), "url", url)
	return img, nil
}
