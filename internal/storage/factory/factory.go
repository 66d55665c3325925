package factory

import (
	"context"
	"fmt"

	"github.com/julpayne/eval-hub/internal/storage"
	"github.com/julpayne/eval-hub/internal/storage/in_mem"
	"github.com/julpayne/eval-hub/internal/storage/pg"
	pkgserver "github.com/julpayne/eval-hub/pkg/server"
)

// NewStore creates a storage.Store based on the configured storage type,
// along with a health checker reflecting the backing store's availability.
func NewStore(ctx context.Context, cfg *StorageConfig) (storage.Store, pkgserver.HealthChecker, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewResponseStore(pool), pg.NewHealthChecker(pool), nil

	case storage.InMem:
		return in_mem.NewInMemStore(), pkgserver.NewOkHealthChecker(), nil

	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
