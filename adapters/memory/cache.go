package memory

import (
	"context"
	"sync"

	"github.com/AshkanYarmoradi/go-poke/pokemon"
)

// Logger is the subset of the application logger the cache writes to.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}

var _ pokemon.Repository = (*CacheLayer)(nil)

// CacheLayer serves Pokémon from an in-memory store and falls back to an
// upstream repository on a miss. Fetched values are handed to a single
// background writer through a one-slot queue, so the caller never waits for
// the store to be updated.
//
// Two concurrent misses for the same id may both reach upstream and both be
// inserted; Get keeps returning the first one.
type CacheLayer struct {
	upstream pokemon.Repository
	store    *PokemonRepository
	logger   Logger

	queue     chan pokemon.Pokemon
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// CacheOption configures a CacheLayer.
type CacheOption func(*CacheLayer)

// WithCacheLogger sets the logger used for hit, miss and insert traces.
func WithCacheLogger(logger Logger) CacheOption {
	return func(c *CacheLayer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBackingStore uses store instead of a fresh PokemonRepository.
func WithBackingStore(store *PokemonRepository) CacheOption {
	return func(c *CacheLayer) {
		if store != nil {
			c.store = store
		}
	}
}

// NewCacheLayer wraps upstream and starts the background writer. The writer
// runs until Close is called or ctx is cancelled.
func NewCacheLayer(ctx context.Context, upstream pokemon.Repository, opts ...CacheOption) *CacheLayer {
	c := &CacheLayer{
		upstream: upstream,
		store:    NewPokemonRepository(),
		logger:   noopLogger{},
		queue:    make(chan pokemon.Pokemon, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.run(ctx)
	return c
}

func (c *CacheLayer) run(ctx context.Context) {
	defer close(c.stopped)
	for {
		select {
		case p := <-c.queue:
			c.store.Insert(p)
			c.logger.Debug("cached pokemon", "dex_id", p.DexID, "name", p.Name)
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Get returns the Pokémon with the given dex number.
//
// A hit never touches upstream. On a miss the upstream result is returned as
// is; a found value is queued for insertion first. If the queue is full the
// call waits for the writer, unless ctx is done or the cache is closed, in
// which case the value is returned without being cached.
func (c *CacheLayer) Get(ctx context.Context, id pokemon.DexID) (*pokemon.Pokemon, error) {
	cached, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		c.logger.Debug("cache hit", "dex_id", id)
		return cached, nil
	}

	c.logger.Debug("cache miss, fetching upstream", "dex_id", id)
	fetched, err := c.upstream.Get(ctx, id)
	if err != nil || fetched == nil {
		return fetched, err
	}

	select {
	case c.queue <- *fetched:
	case <-ctx.Done():
		c.logger.Debug("cache insert abandoned", "dex_id", id, "error", ctx.Err())
	case <-c.stopped:
	}
	return fetched, nil
}

// Store returns the backing store.
func (c *CacheLayer) Store() *PokemonRepository {
	return c.store
}

// Close stops the background writer and waits for it to exit. Values still
// in the queue are dropped.
func (c *CacheLayer) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	<-c.stopped
	return nil
}
