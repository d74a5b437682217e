package repository

import (
	"context"
	"strings"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
)

// Filter es el predicado de búsqueda libre: coincidencia por subcadena, sin distinguir
// mayúsculas, en cualquiera de Fields (OR). Un Term vacío coincide con todo.
type Filter struct {
	Term   string
	Fields []string
}

// MatchAll indica si el filtro no restringe nada.
func (f Filter) MatchAll() bool {
	return strings.TrimSpace(f.Term) == "" || len(f.Fields) == 0
}

// RecordRepository define el puerto de persistencia de un recurso (una colección).
// Replace y Delete devuelven (nil, nil) cuando el id no corresponde a ningún registro.
type RecordRepository interface {
	Count(ctx context.Context) (int64, error)
	Find(ctx context.Context, filter Filter, skip, limit int64) ([]*entity.Record, error)
	Insert(ctx context.Context, rec *entity.Record) (*entity.Record, error)
	Replace(ctx context.Context, id string, rec *entity.Record) (*entity.Record, error)
	Delete(ctx context.Context, id string) (*entity.Record, error)
	Ping(ctx context.Context) error
}

// RecordRepositoryFactory construye el repositorio de un esquema sobre un cliente ya conectado.
type RecordRepositoryFactory func(schema entity.Schema) (RecordRepository, error)
