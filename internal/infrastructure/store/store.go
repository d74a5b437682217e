// Package store abre el almacén elegido en STORE_DRIVER y construye la fábrica de repositorios.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/breaker"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/mongodb"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gudang-api/pkg/config"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

// Open conecta el almacén y devuelve la fábrica (con circuit breaker si está habilitado)
// y la función que libera la conexión.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.RecordRepositoryFactory, func(), error) {
	factory, closeFn, err := open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Breaker.Enabled {
		factory = breaker.Factory(factory, breaker.Config{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		}, log)
	}
	return factory, closeFn, nil
}

func open(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.RecordRepositoryFactory, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.Factory(ctx, pool), pool.Close, nil

	case config.DriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos no se persisten")
		return memory.Factory(), func() {}, nil

	case config.DriverMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a MongoDB: %w", err)
		}
		return client.Factory(), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("desconexión de MongoDB")
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.Store.Driver)
	}
}
