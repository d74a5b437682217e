package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gudang-api/internal/application/usecase"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/domain/repository"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Gudang-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// downRepo simula un almacén inalcanzable.
type downRepo struct{ err error }

func (d downRepo) Count(context.Context) (int64, error) { return 0, d.err }
func (d downRepo) Find(context.Context, repository.Filter, int64, int64) ([]*entity.Record, error) {
	return nil, d.err
}
func (d downRepo) Insert(context.Context, *entity.Record) (*entity.Record, error) { return nil, d.err }
func (d downRepo) Replace(context.Context, string, *entity.Record) (*entity.Record, error) {
	return nil, d.err
}
func (d downRepo) Delete(context.Context, string) (*entity.Record, error) { return nil, d.err }
func (d downRepo) Ping(context.Context) error                          { return d.err }

// buildApp monta los cuatro recursos sobre el repositorio que devuelva factory.
func buildApp(t *testing.T, factory repository.RecordRepositoryFactory, secret string) *fiber.App {
	t.Helper()
	reports := pdf.NewRegisterGenerator("gudang-api-test")
	var ucs []*usecase.RecordUseCase
	for _, schema := range entity.Schemas() {
		repo, err := factory(schema)
		require.NoError(t, err)
		ucs = append(ucs, usecase.NewRecordUseCase(usecase.RecordUseCaseConfig{
			Schema:  schema,
			Repo:    repo,
			Reports: reports,
		}))
	}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Records:   ucs,
		Metrics:   apphttp.NewMetrics("gudang"),
		JWTSecret: secret,
	})
	return app
}

func memoryApp(t *testing.T) *fiber.App {
	return buildApp(t, memory.Factory(), "")
}

func downApp(t *testing.T) *fiber.App {
	return buildApp(t, func(entity.Schema) (repository.RecordRepository, error) {
		return downRepo{err: errors.New("server selection timeout")}, nil
	}, "")
}

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
	Pagination struct {
		Page       int64 `json:"page"`
		Limit      int64 `json:"limit"`
		TotalPages int64 `json:"total_pages"`
		TotalCount int64 `json:"total_count"`
	} `json:"pagination"`
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

type record map[string]any

func dataRecord(t *testing.T, env envelope) record {
	t.Helper()
	var rec record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	return rec
}

func dataList(t *testing.T, env envelope) []record {
	t.Helper()
	var list []record
	require.NoError(t, json.Unmarshal(env.Data, &list))
	return list
}

const incomingBody = `{"no_surat_jalan":"SJ-001","tanggal":"2024-01-01","nama_supplier":"Acme","nama_barang":"Bolt","qty":10}`

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestIncoming_FlujoCompleto(t *testing.T) {
	app := memoryApp(t)

	status, env := call(t, app, http.MethodPost, "/api/ins", incomingBody)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "In created successfully", env.Message)
	created := dataRecord(t, env)
	assert.Equal(t, float64(10), created["qty"])
	id, _ := created["_id"].(string)
	require.NotEmpty(t, id)

	status, env = call(t, app, http.MethodGet, "/api/ins?search=Acme", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ins read successfully", env.Message)
	list := dataList(t, env)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["_id"])

	status, env = call(t, app, http.MethodGet, "/api/ins?search=Nonexistent", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, dataList(t, env))
	assert.Equal(t, int64(1), env.Pagination.TotalCount, "total_count ignora la búsqueda")

	status, env = call(t, app, http.MethodPut, "/api/ins?id="+id, strings.Replace(incomingBody, `"qty":10`, `"qty":5`, 1))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "In updated successfully", env.Message)
	updated := dataRecord(t, env)
	assert.Equal(t, float64(5), updated["qty"])
	assert.Equal(t, id, updated["_id"])

	status, env = call(t, app, http.MethodDelete, "/api/ins?id="+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "In deleted successfully", env.Message)
	assert.Empty(t, env.Data)

	status, env = call(t, app, http.MethodDelete, "/api/ins?id="+id, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "In not found", env.Message)
}

func TestList_RespuestaVaciaConPaginacion(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodGet, "/api/retur-gudangs", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Retur Gudang read successfully", env.Message)
	assert.Equal(t, "[]", string(env.Data))
	assert.Equal(t, int64(1), env.Pagination.Page)
	assert.Equal(t, int64(5), env.Pagination.Limit)
	assert.Zero(t, env.Pagination.TotalPages)
}

func TestList_Paginacion(t *testing.T) {
	app := memoryApp(t)
	for i := 0; i < 7; i++ {
		status, _ := call(t, app, http.MethodPost, "/api/ins", incomingBody)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := call(t, app, http.MethodGet, "/api/ins?page=2&limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, env), 2)
	assert.Equal(t, int64(2), env.Pagination.TotalPages)
	assert.Equal(t, int64(7), env.Pagination.TotalCount)
}

func TestList_PaginacionInvalida(t *testing.T) {
	app := memoryApp(t)
	for _, q := range []string{"page=0", "limit=-1", "page=abc", "limit=1.5"} {
		status, env := call(t, app, http.MethodGet, "/api/outs?"+q, "")
		assert.Equal(t, http.StatusBadRequest, status, q)
		assert.Equal(t, "Invalid pagination parameters", env.Message, q)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores de cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ValidacionReportaTodosLosCampos(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodPost, "/api/outs", `{"no_surat_jalan":"  ","qty":0}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Validation failed", env.Message)

	var errs []struct {
		Field string `json:"field"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"no_surat_jalan", "tanggal", "yang_mengeluarkan", "yang_membawa", "nama_barang", "qty"}, fields)
	assert.Equal(t, "InvalidQuantity", errs[len(errs)-1].Code)
}

func TestCreate_CuerpoVacioEsValidacion(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodPost, "/api/retur-pabriks", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)
}

func TestCreate_JSONMalFormado(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodPost, "/api/ins", `{"no_surat_jalan":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestUpdate_SinID(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodPut, "/api/ins", incomingBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ID is required", env.Message)
}

func TestUpdate_IDInexistente(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodPut, "/api/ins?id=no-existe", incomingBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "In not found", env.Message)
}

func TestUpdate_ElIndiceSobreviveAPeticionesPosteriores(t *testing.T) {
	app := memoryApp(t)

	_, env := call(t, app, http.MethodPost, "/api/ins", incomingBody)
	id, _ := dataRecord(t, env)["_id"].(string)
	require.NotEmpty(t, id)

	status, _ := call(t, app, http.MethodPut, "/api/ins?id="+id, incomingBody)
	require.Equal(t, http.StatusOK, status)

	// peticiones ajenas que reutilizan el buffer con bytes distintos en la misma posición
	junk := strings.Repeat("z", len(id))
	call(t, app, http.MethodGet, "/api/ins?xx="+junk, "")
	call(t, app, http.MethodGet, "/api/outs?xx="+junk, "")

	status, env = call(t, app, http.MethodGet, "/api/ins", "")
	require.Equal(t, http.StatusOK, status)
	list := dataList(t, env)
	require.Len(t, list, 1)
	require.NotNil(t, list[0])
	assert.Equal(t, id, list[0]["_id"])

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ins/report.pdf", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ = call(t, app, http.MethodDelete, "/api/ins?id="+id, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestDelete_SinID(t *testing.T) {
	status, env := call(t, memoryApp(t), http.MethodDelete, "/api/outs", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ID is required", env.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallos del almacén
// ──────────────────────────────────────────────────────────────────────────────

func TestAlmacenCaido_Devuelve500(t *testing.T) {
	app := downApp(t)

	status, env := call(t, app, http.MethodGet, "/api/ins", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to read Ins", env.Message)

	status, env = call(t, app, http.MethodPost, "/api/ins", incomingBody)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to create In", env.Message)

	status, env = call(t, app, http.MethodPut, "/api/ins?id=abc", incomingBody)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to update In", env.Message)

	status, env = call(t, app, http.MethodDelete, "/api/ins?id=abc", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to delete In", env.Message)
	assert.JSONEq(t, `"server selection timeout"`, string(env.Errors))
}

func TestAlmacenCaido_ValidacionSigueSiendo400(t *testing.T) {
	status, env := call(t, downApp(t), http.MethodPost, "/api/ins", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas de soporte
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_DevuelvePDF(t *testing.T) {
	app := memoryApp(t)
	status, _ := call(t, app, http.MethodPost, "/api/ins", incomingBody)
	require.Equal(t, http.StatusCreated, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/ins/report.pdf?page=1", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ins-1.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestHealth(t *testing.T) {
	resp, err := memoryApp(t).Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = downApp(t).Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = downApp(t).Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestID_SePropaga(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ins", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := memoryApp(t).Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))

	resp, err = memoryApp(t).Test(httptest.NewRequest(http.MethodGet, "/api/ins", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestMetrics_CuentaPeticionesPorRuta(t *testing.T) {
	app := memoryApp(t)
	status, _ := call(t, app, http.MethodGet, "/api/outs", "")
	require.Equal(t, http.StatusOK, status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `gudang_http_requests_total{method="GET",route="/api/outs",status="200"} 1`)
}
