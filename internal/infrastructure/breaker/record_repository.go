// Package breaker protege un RecordRepository con un circuit breaker (sony/gobreaker).
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

// ErrCircuitOpen se devuelve sin tocar el almacén mientras el circuito está abierto.
var ErrCircuitOpen = errors.New("circuit breaker abierto")

// Config parámetros del breaker.
type Config struct {
	MaxFailures uint32        // fallos consecutivos para abrir
	OpenTimeout time.Duration // tiempo en abierto antes de semiabierto
	MaxRequests uint32        // peticiones de prueba en semiabierto
}

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo decorador: cada llamada al almacén pasa por el breaker de su colección.
// Un registro no encontrado (nil, nil) no cuenta como fallo; tampoco la cancelación del cliente.
type RecordRepo struct {
	next repository.RecordRepository
	cb   *gobreaker.CircuitBreaker
	name string
}

// Wrap envuelve next con un breaker propio llamado name.
func Wrap(next repository.RecordRepository, name string, cfg Config, log *logger.Logger) *RecordRepo {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &RecordRepo{next: next, cb: gobreaker.NewCircuitBreaker(settings), name: name}
}

// Factory decora cada repositorio producido por next.
func Factory(next repository.RecordRepositoryFactory, cfg Config, log *logger.Logger) repository.RecordRepositoryFactory {
	return func(schema entity.Schema) (repository.RecordRepository, error) {
		repo, err := next(schema)
		if err != nil {
			return nil, err
		}
		return Wrap(repo, schema.Collection, cfg, log), nil
	}
}

// State estado actual del circuito.
func (r *RecordRepo) State() gobreaker.State {
	return r.cb.State()
}

func execute[T any](r *RecordRepo, fn func() (T, error)) (T, error) {
	var zero T
	out, err := r.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%s: %w", r.name, ErrCircuitOpen)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func (r *RecordRepo) Count(ctx context.Context) (int64, error) {
	return execute(r, func() (int64, error) { return r.next.Count(ctx) })
}

func (r *RecordRepo) Find(ctx context.Context, filter repository.Filter, skip, limit int64) ([]*entity.Record, error) {
	return execute(r, func() ([]*entity.Record, error) { return r.next.Find(ctx, filter, skip, limit) })
}

func (r *RecordRepo) Insert(ctx context.Context, rec *entity.Record) (*entity.Record, error) {
	return execute(r, func() (*entity.Record, error) { return r.next.Insert(ctx, rec) })
}

func (r *RecordRepo) Replace(ctx context.Context, id string, rec *entity.Record) (*entity.Record, error) {
	return execute(r, func() (*entity.Record, error) { return r.next.Replace(ctx, id, rec) })
}

func (r *RecordRepo) Delete(ctx context.Context, id string) (*entity.Record, error) {
	return execute(r, func() (*entity.Record, error) { return r.next.Delete(ctx, id) })
}

// Ping no pasa por el breaker: /health/ready debe reflejar el estado real del almacén.
func (r *RecordRepo) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}
