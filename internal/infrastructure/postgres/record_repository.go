// Package postgres implementa el repositorio de registros sobre PostgreSQL, guardando
// cada registro como un documento JSONB (una tabla por colección).
package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

// RecordRepo implementación del puerto RecordRepository sobre PostgreSQL.
// El orden natural es el de inserción (columna seq).
type RecordRepo struct {
	pool   *pgxpool.Pool
	schema entity.Schema
	table  string
	newID  func() uuid.UUID
}

// NewRecordRepository construye el adaptador; la tabla debe existir (ver EnsureTable).
func NewRecordRepository(pool *pgxpool.Pool, schema entity.Schema) *RecordRepo {
	return &RecordRepo{
		pool:   pool,
		schema: schema,
		table:  pgx.Identifier{schema.Collection}.Sanitize(),
		newID:  uuid.New,
	}
}

// Factory crea la tabla de cada esquema si no existe y devuelve su repositorio.
func Factory(ctx context.Context, pool *pgxpool.Pool) repository.RecordRepositoryFactory {
	return func(schema entity.Schema) (repository.RecordRepository, error) {
		repo := NewRecordRepository(pool, schema)
		if err := repo.EnsureTable(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}
}

// EnsureTable crea la tabla de la colección si no existe.
func (r *RecordRepo) EnsureTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + r.table + ` (
			seq        BIGSERIAL,
			id         UUID PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("crear tabla %s: %w", r.schema.Collection, err)
	}
	return nil
}

// Count cuenta todas las filas de la tabla.
func (r *RecordRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.schema.Collection, err)
	}
	return n, nil
}

// Find aplica la búsqueda con ILIKE sobre los campos del documento y pagina con OFFSET/LIMIT.
func (r *RecordRepo) Find(ctx context.Context, filter repository.Filter, skip, limit int64) ([]*entity.Record, error) {
	where, args := buildWhere(filter)
	args = append(args, skip, limit)
	query := `
		SELECT id::text, doc, created_at, updated_at
		FROM ` + r.table + where + `
		ORDER BY seq
		OFFSET $` + strconv.Itoa(len(args)-1) + ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.schema.Collection, err)
	}
	defer rows.Close()

	out := make([]*entity.Record, 0)
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Insert persiste un registro nuevo con un UUID generado.
func (r *RecordRepo) Insert(ctx context.Context, rec *entity.Record) (*entity.Record, error) {
	doc, err := r.marshalDoc(rec)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	query := `INSERT INTO ` + r.table + ` (id, doc, created_at, updated_at) VALUES ($1, $2, $3, $3)`

	// una colisión de UUID se reintenta una vez con otro id
	var id uuid.UUID
	for attempt := 0; ; attempt++ {
		id = r.newID()
		_, err = r.pool.Exec(ctx, query, id, doc, now)
		if err == nil {
			break
		}
		if attempt == 0 && isUniqueViolation(err) {
			continue
		}
		return nil, fmt.Errorf("insert %s: %w", r.schema.Collection, err)
	}
	saved := rec.Clone()
	saved.ID = id.String()
	saved.CreatedAt = now
	saved.UpdatedAt = now
	return saved, nil
}

// Replace fusiona los campos validados sobre el documento existente (las claves ajenas
// al esquema se conservan). Devuelve (nil, nil) si el id no existe o no es un UUID.
func (r *RecordRepo) Replace(ctx context.Context, id string, rec *entity.Record) (*entity.Record, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	doc, err := r.marshalDoc(rec)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE ` + r.table + ` SET doc = doc || $2::jsonb, updated_at = $3
		WHERE id = $1
		RETURNING id::text, doc, created_at, updated_at`
	row := r.pool.QueryRow(ctx, query, uid, doc, time.Now().UTC().Truncate(time.Microsecond))
	updated, err := r.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.schema.Collection, err)
	}
	return updated, nil
}

// Delete elimina por id y devuelve la fila borrada, o (nil, nil) si no existía.
func (r *RecordRepo) Delete(ctx context.Context, id string) (*entity.Record, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	query := `DELETE FROM ` + r.table + ` WHERE id = $1 RETURNING id::text, doc, created_at, updated_at`
	deleted, err := r.scan(r.pool.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", r.schema.Collection, err)
	}
	return deleted, nil
}

// Ping verifica el pool.
func (r *RecordRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// buildWhere arma "WHERE doc->>$1 ILIKE $n OR ..." con el término escapado para LIKE.
func buildWhere(filter repository.Filter) (string, []any) {
	if filter.MatchAll() {
		return "", nil
	}
	args := []any{"%" + EscapeLike(filter.Term) + "%"}
	conds := make([]string, 0, len(filter.Fields))
	for _, key := range filter.Fields {
		args = append(args, key)
		conds = append(conds, fmt.Sprintf(`doc->>$%d ILIKE $1 ESCAPE '\'`, len(args)))
	}
	return " WHERE " + strings.Join(conds, " OR "), args
}

// EscapeLike escapa los comodines de LIKE para buscar el término literalmente.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *RecordRepo) marshalDoc(rec *entity.Record) ([]byte, error) {
	doc := make(map[string]any, len(r.schema.Fields)+1)
	for _, f := range r.schema.Fields {
		doc[f.Key] = rec.Get(f.Key)
	}
	doc[r.schema.QtyKey] = rec.Qty
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", r.schema.Collection, err)
	}
	return b, nil
}

func (r *RecordRepo) scan(row pgx.Row) (*entity.Record, error) {
	var (
		id      string
		raw     []byte
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&id, &raw, &created, &updated); err != nil {
		return nil, err
	}
	rec, err := r.decodeDoc(raw)
	if err != nil {
		return nil, err
	}
	rec.ID = id
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	return rec, nil
}

// decodeDoc lee el documento JSONB conservando qty como entero (sin pasar por float64).
func (r *RecordRepo) decodeDoc(raw []byte) (*entity.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", r.schema.Collection, err)
	}
	rec := r.schema.NewRecord()
	for _, f := range r.schema.Fields {
		if s, ok := doc[f.Key].(string); ok {
			rec.Values[f.Key] = s
		}
	}
	if n, ok := doc[r.schema.QtyKey].(json.Number); ok {
		q, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("decodificar %s: qty %s: %w", r.schema.Collection, n, err)
		}
		rec.Qty = q
	}
	return rec, nil
}
