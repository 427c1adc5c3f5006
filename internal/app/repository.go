package app

import (
	"context"
	"fmt"

	"timeTracker/internal/config"
	"timeTracker/internal/logger"
	"timeTracker/internal/repository/item/inmemory"
	"timeTracker/internal/repository/item/postgres"
	"timeTracker/internal/service"
)

// OpenRepository выбирает хранилище по repository.type. Для postgres при
// migrate=true схема поднимается до последней версии. close освобождает соединения.
func OpenRepository(ctx context.Context, cfg *config.Config, migrate bool) (service.Repository, func(), error) {
	switch cfg.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("Repository: Используется in-memory хранилище")
		return inmemory.NewStorage(), func() {}, nil

	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := storage.Migrate(ctx); err != nil {
				storage.Close()
				return nil, nil, fmt.Errorf("миграции: %w", err)
			}
		}
		return storage, storage.Close, nil

	default:
		return nil, nil, fmt.Errorf("неизвестный repository.type %q", cfg.Repository.Type)
	}
}
