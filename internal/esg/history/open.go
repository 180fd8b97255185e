package history

import (
	"context"
	"fmt"

	"github.com/build-flow-labs/esgrate/internal/platform/config"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (Store, error) {
	log = log.With("driver", cfg.Driver)
	switch cfg.Driver {
	case "", "file":
		log.Info("opening history", "dir", cfg.Dir)
		return NewFileStore(cfg.Dir, log)
	case "sqlite":
		log.Info("opening history")
		return OpenSQLite(ctx, cfg.DSN, log)
	case "postgres":
		log.Info("opening history")
		return OpenPostgres(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
