package breaker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/breaker"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/memory"
)

var errConexion = errors.New("connection refused")

// flakyRepo falla en Count mientras down sea true; el resto delega en memoria.
type flakyRepo struct {
	repository.RecordRepository
	down  bool
	calls int
}

func (f *flakyRepo) Count(ctx context.Context) (int64, error) {
	f.calls++
	if f.down {
		return 0, errConexion
	}
	return f.RecordRepository.Count(ctx)
}

func TestBreaker_AbreTrasFallosConsecutivos(t *testing.T) {
	inner := &flakyRepo{RecordRepository: memory.NewRecordRepository(entity.Incoming), down: true}
	repo := breaker.Wrap(inner, "ins", breaker.Config{MaxFailures: 2, OpenTimeout: time.Hour}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.Count(ctx)
		assert.ErrorIs(t, err, errConexion)
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())

	_, err := repo.Count(ctx)
	assert.ErrorIs(t, err, breaker.ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls, "con el circuito abierto no se llama al almacén")
}

func TestBreaker_NoEncontradoNoEsFallo(t *testing.T) {
	repo := breaker.Wrap(memory.NewRecordRepository(entity.Incoming), "ins", breaker.Config{MaxFailures: 1, OpenTimeout: time.Hour}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := repo.Delete(ctx, "no-existe")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestBreaker_SemiabiertoSeCierraAlRecuperarse(t *testing.T) {
	inner := &flakyRepo{RecordRepository: memory.NewRecordRepository(entity.Incoming), down: true}
	repo := breaker.Wrap(inner, "ins", breaker.Config{MaxFailures: 1, OpenTimeout: 10 * time.Millisecond}, nil)
	ctx := context.Background()

	_, err := repo.Count(ctx)
	require.Error(t, err)
	require.Equal(t, gobreaker.StateOpen, repo.State())

	inner.down = false
	time.Sleep(20 * time.Millisecond)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

func TestFactory_DecoraCadaEsquema(t *testing.T) {
	factory := breaker.Factory(memory.Factory(), breaker.Config{}, nil)
	repo, err := factory(entity.Outgoing)
	require.NoError(t, err)
	_, ok := repo.(*breaker.RecordRepo)
	assert.True(t, ok)
}
