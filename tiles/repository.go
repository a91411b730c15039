package tiles

import (
	"context"
	"image"
	"log"
	"sync"

	"github.com/mapfx/mappane/tiles/worker"
)

// Repository hands out tiles from a Source without ever blocking the caller.
// A tile is either ready (cached) or pending; pending tiles are loaded at
// most once and announced through the OnTileLoaded callback when they arrive.
//
// The callback fires on a worker goroutine. Embedding applications must
// marshal it back onto the context the viewport runs on, typically by
// poking a refresh channel that invalidates the window.
type Repository struct {
	mu      sync.Mutex
	source  Source
	cache   Cache
	pending map[string]bool
	pool    *worker.Pool
	onLoad  func()
}

type RepositoryOption func(*Repository)

// WithWorkers enables asynchronous loading through a bounded worker pool.
// Without it the repository loads tiles inline on Get.
func WithWorkers(n int) RepositoryOption {
	return func(r *Repository) {
		r.pool = worker.NewPool(n)
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) RepositoryOption {
	return func(r *Repository) {
		r.cache = c
	}
}

func NewRepository(source Source, opts ...RepositoryOption) *Repository {
	r := &Repository{
		source:  source,
		cache:   NewImageCache(),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Source returns the active tile source.
func (r *Repository) Source() Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

// SetSource swaps the tile source and resets the cache scope; tiles of the
// previous source are dropped.
func (r *Repository) SetSource(source Source) {
	r.mu.Lock()
	r.source = source
	r.pending = make(map[string]bool)
	r.mu.Unlock()
	r.cache.Clear()
}

// SetOnTileLoaded registers the callback invoked after an asynchronous load
// completes.
func (r *Repository) SetOnTileLoaded(fn func()) {
	r.mu.Lock()
	r.onLoad = fn
	r.mu.Unlock()
}

// Get returns the tile image if it is ready. A false return means the tile
// is pending; it will be available on a later pass. Get never blocks on the
// network when the repository has a worker pool.
func (r *Repository) Get(t Tile) (image.Image, bool) {
	key := t.Key()
	if img, ok := r.cache.Get(key); ok {
		return img, true
	}

	if r.pool == nil {
		img, err := r.loadAndCache(r.Source(), t, key)
		if err != nil {
			log.Printf("error loading tile %v: %v", t, err)
			return nil, false
		}
		return img, true
	}

	r.mu.Lock()
	if r.pending[key] {
		r.mu.Unlock()
		return nil, false
	}
	r.pending[key] = true
	source := r.source
	r.mu.Unlock()

	r.pool.Submit(worker.Task{
		Ctx: context.Background(),
		Work: func() error {
			_, err := r.loadAndCache(source, t, key)

			r.mu.Lock()
			delete(r.pending, key)
			current := r.source == source
			onLoad := r.onLoad
			r.mu.Unlock()

			if err != nil {
				log.Printf("error loading tile %v: %v", t, err)
				return err
			}
			if current && onLoad != nil {
				onLoad()
			}
			return nil
		},
	})

	return nil, false
}

func (r *Repository) loadAndCache(source Source, t Tile, key string) (image.Image, error) {
	img, err := source.Load(t)
	if err != nil {
		return nil, err
	}
	// Do not cache across a source swap that happened mid-load.
	r.mu.Lock()
	current := r.source == source
	r.mu.Unlock()
	if current {
		r.cache.Set(key, img)
	}
	return img, nil
}

// Close shuts the worker pool down. Cached tiles stay available.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Shutdown()
	}
}
