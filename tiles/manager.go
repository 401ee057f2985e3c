package tiles

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/osmgps/gpsmap/tiles/worker"
)

// Manager caches decoded tiles in memory and fetches misses asynchronously.
// Cached never blocks: a miss schedules a background fetch and reports
// false, and the OnLoad callback fires once the tile has arrived so the
// widget can request a redraw.
type Manager struct {
	mu       sync.RWMutex
	cache    map[string]image.Image
	inflight map[string]bool

	provider Provider
	pool     *worker.Pool
	onLoad   func()
	log      *slog.Logger
}

// NewManager wraps the provider with a cache and a fetch pool.
func NewManager(provider Provider, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		cache:    make(map[string]image.Image),
		inflight: make(map[string]bool),
		provider: provider,
		pool:     worker.NewPool(4),
		log:      log,
	}
}

// SetOnLoad registers the callback invoked (from a worker goroutine) each
// time a fetched tile lands in the cache.
func (m *Manager) SetOnLoad(fn func()) {
	m.mu.Lock()
	m.onLoad = fn
	m.mu.Unlock()
}

// Cached returns the tile if it is already decoded in memory. On a miss it
// schedules an asynchronous fetch, at most one per tile, and returns false.
// Tiles outside the world are never fetched.
func (m *Manager) Cached(tile Tile) (image.Image, bool) {
	if !tile.Valid() {
		return nil, false
	}
	key := tile.Key()

	m.mu.RLock()
	img, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return img, true
	}

	m.mu.Lock()
	if m.inflight[key] {
		m.mu.Unlock()
		return nil, false
	}
	m.inflight[key] = true
	m.mu.Unlock()

	m.pool.Submit(worker.Task{
		Ctx:  context.Background(),
		Work: func(ctx context.Context) error { return m.fetch(ctx, tile) },
	})
	return nil, false
}

func (m *Manager) fetch(ctx context.Context, tile Tile) error {
	key := tile.Key()
	img, err := m.provider.GetTile(ctx, tile)

	m.mu.Lock()
	delete(m.inflight, key)
	if err == nil {
		m.cache[key] = img
	}
	onLoad := m.onLoad
	m.mu.Unlock()

	if err != nil {
		// no retry here; the next recomposition asks again
		m.log.Debug("tile fetch failed", "tile", key, "error", err)
		return err
	}
	if onLoad != nil {
		onLoad()
	}
	return nil
}

// Get fetches a tile synchronously, consulting the cache first. It is the
// blocking counterpart of Cached, for callers outside the paint path.
func (m *Manager) Get(ctx context.Context, tile Tile) (image.Image, error) {
	key := tile.Key()
	m.mu.RLock()
	img, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := m.provider.GetTile(ctx, tile)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.cache[key] = img
	m.mu.Unlock()
	return img, nil
}

// Clear empties the cache. Used when the backing tile store changes.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.cache = make(map[string]image.Image)
	m.mu.Unlock()
}

// Close shuts down the fetch pool.
func (m *Manager) Close() {
	m.pool.Shutdown()
}
