package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/breaker"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/store"
	"github.com/jhoicas/Gudang-api/pkg/config"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

func TestOpen_MemoriaConBreaker(t *testing.T) {
	cfg := &config.Config{
		Store:   config.StoreConfig{Driver: config.DriverMemory},
		Breaker: config.BreakerConfig{Enabled: true, MaxFailures: 3},
	}
	factory, closeFn, err := store.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	repo, err := factory(entity.Incoming)
	require.NoError(t, err)
	_, ok := repo.(*breaker.RecordRepo)
	assert.True(t, ok)
}

func TestOpen_MemoriaSinBreaker(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	factory, closeFn, err := store.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	repo, err := factory(entity.Outgoing)
	require.NoError(t, err)
	_, ok := repo.(*memory.RecordRepo)
	assert.True(t, ok)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "redis"}}
	_, _, err := store.Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
