package cli

import (
	"fmt"
	"os"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/kv/jsonstore"
	"github.com/idilsaglam/tada/internal/kv/memstore"
	"github.com/idilsaglam/tada/internal/kv/sqlitestore"
)

// OpenStorage opens the slot backend cfg selects. The caller closes it.
func OpenStorage(cfg *config.Config) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		s, err := jsonstore.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("file backend: %w", err)
		}
		return s, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite backend: %w", err)
		}
		s, err := sqlitestore.Open(cfg.DBPath())
		if err != nil {
			return nil, fmt.Errorf("sqlite backend: %w", err)
		}
		return s, nil
	case config.BackendMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
