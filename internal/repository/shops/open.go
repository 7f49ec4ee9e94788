package shops

import (
	"context"
	"fmt"
	"log"

	"github.com/hammall/hamra/backend/internal/config"
	"github.com/hammall/hamra/backend/internal/database"
)

// Open builds the Source selected by cfg. The returned close function
// releases any connection pool and is never nil.
func Open(ctx context.Context, cfg config.ShopsConfig) (Source, func(), error) {
	noop := func() {}

	switch SourceType(cfg.Source) {
	case SourceAPI:
		log.Printf("[shops] using rent service API at %s", cfg.APIBaseURL)
		return NewAPISource(cfg.APIBaseURL, cfg.APITimeout), noop, nil
	case SourcePostgres:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		src := NewPostgresSource(pool)
		if cfg.EnsureView {
			if err := src.EnsureView(ctx); err != nil {
				log.Printf("[shops] warning: %v; relying on an existing view", err)
			}
		}
		log.Printf("[shops] using tenant_shop_balances view")
		return src, pool.Close, nil
	case SourceMemory:
		if cfg.SeedFile == "" {
			log.Printf("[shops] using empty in-memory source")
			return NewMemorySource(nil), noop, nil
		}
		src, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("[shops] using in-memory source seeded from %s", cfg.SeedFile)
		return src, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown shop source %q", cfg.Source)
	}
}
