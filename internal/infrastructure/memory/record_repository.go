// Package memory implementa el repositorio de registros en memoria del proceso.
// Se usa en pruebas y con STORE_DRIVER=memory para desarrollo local.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo guarda los registros de una colección en orden de inserción.
type RecordRepo struct {
	schema entity.Schema
	now    func() time.Time

	mu    sync.RWMutex
	order []string
	byID  map[string]*entity.Record
}

// NewRecordRepository construye un repositorio vacío para el esquema.
func NewRecordRepository(schema entity.Schema) *RecordRepo {
	return &RecordRepo{
		schema: schema,
		now:    func() time.Time { return time.Now().UTC() },
		byID:   make(map[string]*entity.Record),
	}
}

// Factory devuelve una fábrica que crea un repositorio independiente por esquema.
func Factory() repository.RecordRepositoryFactory {
	return func(schema entity.Schema) (repository.RecordRepository, error) {
		return NewRecordRepository(schema), nil
	}
}

func (r *RecordRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}

func (r *RecordRepo) Find(ctx context.Context, filter repository.Filter, skip, limit int64) ([]*entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match := matcher(filter)

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Record, 0)
	var seen int64
	for _, id := range r.order {
		rec := r.byID[id]
		if !match(rec) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		out = append(out, rec.Clone())
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (r *RecordRepo) Insert(ctx context.Context, rec *entity.Record) (*entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := rec.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt

	r.mu.Lock()
	r.byID[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()
	return stored.Clone(), nil
}

func (r *RecordRepo) Replace(ctx context.Context, id string, rec *entity.Record) (*entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	next := rec.Clone()
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = r.now()
	r.byID[current.ID] = next
	return next.Clone(), nil
}

func (r *RecordRepo) Delete(ctx context.Context, id string) (*entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	delete(r.byID, current.ID)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return current, nil
}

func (r *RecordRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

// matcher traduce el filtro a una función; compara con plegado de mayúsculas Unicode.
func matcher(filter repository.Filter) func(*entity.Record) bool {
	if filter.MatchAll() {
		return func(*entity.Record) bool { return true }
	}
	term := cases.Fold().String(filter.Term)
	return func(rec *entity.Record) bool {
		for _, key := range filter.Fields {
			if strings.Contains(cases.Fold().String(rec.Get(key)), term) {
				return true
			}
		}
		return false
	}
}
