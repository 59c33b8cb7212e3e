package store

import (
	"context"
	"fmt"

	"github.com/lox/holdem-table/internal/config"
)

// Open builds the Store selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
