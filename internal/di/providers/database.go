package providers

import (
	"github.com/samber/do/v2"

	"github.com/tublog/tublog-server/internal/config"
	"github.com/tublog/tublog-server/internal/logger"
	"github.com/tublog/tublog-server/internal/media/images"
	"github.com/tublog/tublog-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.Storage.DBPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.Storage.DBPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideAvatarStorage provides on-disk storage for profile avatars.
func ProvideAvatarStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	avatars, err := images.NewStorage(cfg.Storage.MediaDir, "avatars")
	if err != nil {
		return nil, err
	}

	log.Info("Avatar storage initialized", "path", cfg.AvatarDir())

	return avatars, nil
}
