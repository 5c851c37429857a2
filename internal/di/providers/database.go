package providers

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/quillpress/quillpress-server/internal/config"
	"github.com/quillpress/quillpress-server/internal/logger"
	"github.com/quillpress/quillpress-server/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlstore.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured database and applies the schema.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(cfg.App.DataPath, 0o750); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	st, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", cfg.Database.Driver)

	return &StoreHandle{Store: st}, nil
}
