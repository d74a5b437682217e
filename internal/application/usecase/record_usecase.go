package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Gudang-api/internal/application/dto"
	"github.com/jhoicas/Gudang-api/internal/application/validation"
	"github.com/jhoicas/Gudang-api/internal/domain"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
)

// ReportGenerator genera el PDF del registro de movimientos de una página.
type ReportGenerator interface {
	GenerateRegister(ctx context.Context, schema entity.Schema, list *dto.RecordListResponse) ([]byte, error)
}

// RecordUseCaseConfig configura una instancia del caso de uso para un esquema.
type RecordUseCaseConfig struct {
	Schema       entity.Schema
	Repo         repository.RecordRepository
	Validator    *validation.SchemaValidator
	Paginator    *Paginator
	Reports      ReportGenerator // opcional
	StoreTimeout time.Duration   // 0 = sin límite propio
}

// RecordUseCase casos de uso CRUD comunes a los cuatro recursos.
type RecordUseCase struct {
	schema    entity.Schema
	repo      repository.RecordRepository
	validator *validation.SchemaValidator
	paginator *Paginator
	reports   ReportGenerator
	timeout   time.Duration
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(cfg RecordUseCaseConfig) *RecordUseCase {
	v := cfg.Validator
	if v == nil {
		v = validation.New()
	}
	p := cfg.Paginator
	if p == nil {
		p = NewPaginator(5, 100, v.Engine())
	}
	return &RecordUseCase{
		schema:    cfg.Schema,
		repo:      cfg.Repo,
		validator: v,
		paginator: p,
		reports:   cfg.Reports,
		timeout:   cfg.StoreTimeout,
	}
}

// Schema devuelve el esquema del recurso.
func (uc *RecordUseCase) Schema() entity.Schema {
	return uc.schema
}

// ParseListQuery valida page/limit tal como llegan en la query string.
func (uc *RecordUseCase) ParseListQuery(page, limit, search string) (dto.ListQuery, error) {
	return uc.paginator.Parse(page, limit, search)
}

// List devuelve una página de registros filtrada por la búsqueda libre.
// total_count cuenta toda la colección, sin aplicar el filtro de búsqueda.
func (uc *RecordUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.RecordListResponse, error) {
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()

	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, uc.fault("count", err)
	}
	items, err := uc.repo.Find(ctx, BuildFilter(uc.schema, q.Search), q.Offset(), q.Limit)
	if err != nil {
		return nil, uc.fault("find", err)
	}
	if items == nil {
		items = []*entity.Record{}
	}
	return &dto.RecordListResponse{
		Status:  dto.StatusSuccess,
		Message: uc.schema.ListName + " read successfully",
		Data:    items,
		Pagination: dto.PageResponse{
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: TotalPages(total, q.Limit),
			TotalCount: total,
		},
	}, nil
}

// Create valida el candidato e inserta un registro nuevo.
func (uc *RecordUseCase) Create(ctx context.Context, candidate any) (*dto.RecordResponse, error) {
	rec, err := uc.validator.Validate(uc.schema, candidate)
	if err != nil {
		return nil, err
	}
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()

	saved, err := uc.repo.Insert(ctx, rec)
	if err != nil {
		return nil, uc.fault("insert", err)
	}
	return &dto.RecordResponse{
		Status:  dto.StatusSuccess,
		Message: uc.schema.Name + " created successfully",
		Data:    saved,
	}, nil
}

// Update reemplaza todos los campos validados de un registro existente (sin upsert).
func (uc *RecordUseCase) Update(ctx context.Context, id string, candidate any) (*dto.RecordResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrMissingID
	}
	rec, err := uc.validator.Validate(uc.schema, candidate)
	if err != nil {
		return nil, err
	}
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()

	updated, err := uc.repo.Replace(ctx, id, rec)
	if err != nil {
		return nil, uc.fault("replace", err)
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.RecordResponse{
		Status:  dto.StatusSuccess,
		Message: uc.schema.Name + " updated successfully",
		Data:    updated,
	}, nil
}

// Delete elimina un registro por id.
func (uc *RecordUseCase) Delete(ctx context.Context, id string) (*dto.RecordResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrMissingID
	}
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, uc.fault("delete", err)
	}
	if deleted == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.RecordResponse{
		Status:  dto.StatusSuccess,
		Message: uc.schema.Name + " deleted successfully",
	}, nil
}

// Report genera el PDF de la misma página que devolvería List.
func (uc *RecordUseCase) Report(ctx context.Context, q dto.ListQuery) ([]byte, error) {
	if uc.reports == nil {
		return nil, errors.New("reportes PDF no configurados")
	}
	list, err := uc.List(ctx, q)
	if err != nil {
		return nil, err
	}
	doc, err := uc.reports.GenerateRegister(ctx, uc.schema, list)
	if err != nil {
		return nil, fmt.Errorf("reporte %s: %w", uc.schema.Collection, err)
	}
	return doc, nil
}

// Ping verifica la conexión con el almacén.
func (uc *RecordUseCase) Ping(ctx context.Context) error {
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()
	return uc.repo.Ping(ctx)
}

func (uc *RecordUseCase) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func (uc *RecordUseCase) fault(op string, err error) error {
	var sf *domain.StoreFault
	if errors.As(err, &sf) {
		return err
	}
	return &domain.StoreFault{Op: uc.schema.Collection + "." + op, Err: err}
}
