package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Gudang-api/internal/application/dto"
	"github.com/jhoicas/Gudang-api/internal/application/usecase"
	"github.com/jhoicas/Gudang-api/internal/domain"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

// Mensajes de error comunes a los cuatro recursos.
const (
	MessageMissingID   = "ID is required"
	MessageInvalidBody = "Invalid request body"
)

var errInvalidBody = errors.New("cuerpo JSON inválido")

// RecordHandler maneja las peticiones HTTP de un recurso de movimientos (ins, outs, retur...).
// Una instancia por esquema; todas comparten la misma lógica.
type RecordHandler struct {
	uc  *usecase.RecordUseCase
	log *logger.Logger
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *usecase.RecordUseCase, log *logger.Logger) *RecordHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar registros con paginación y búsqueda
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(5)
// @Param        search  query  string  false  "Búsqueda libre (subcadena, sin distinguir mayúsculas)"
// @Success      200  {object}  dto.RecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ins [get]
// @Router       /api/outs [get]
// @Router       /api/retur-gudangs [get]
// @Router       /api/retur-pabriks [get]
func (h *RecordHandler) List(c *fiber.Ctx) error {
	q, err := h.uc.ParseListQuery(c.Query("page"), c.Query("limit"), query(c, "search"))
	if err != nil {
		return h.fail(c, "read", err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return h.fail(c, "read", err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "Campos del recurso"
// @Success      201  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ins [post]
// @Router       /api/outs [post]
// @Router       /api/retur-gudangs [post]
// @Router       /api/retur-pabriks [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	candidate, err := decodeBody(c.Body())
	if err != nil {
		return h.fail(c, "create", err)
	}
	out, err := h.uc.Create(c.UserContext(), candidate)
	if err != nil {
		return h.fail(c, "create", err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    query  string  true  "ID del registro"
// @Param        body  body   object  true  "Campos del recurso"
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ins [put]
// @Router       /api/outs [put]
// @Router       /api/retur-gudangs [put]
// @Router       /api/retur-pabriks [put]
func (h *RecordHandler) Update(c *fiber.Ctx) error {
	id := query(c, "id")
	if strings.TrimSpace(id) == "" {
		return h.fail(c, "update", domain.ErrMissingID)
	}
	candidate, err := decodeBody(c.Body())
	if err != nil {
		return h.fail(c, "update", err)
	}
	out, err := h.uc.Update(c.UserContext(), id, candidate)
	if err != nil {
		return h.fail(c, "update", err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id  query  string  true  "ID del registro"
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ins [delete]
// @Router       /api/outs [delete]
// @Router       /api/retur-gudangs [delete]
// @Router       /api/retur-pabriks [delete]
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), query(c, "id"))
	if err != nil {
		return h.fail(c, "delete", err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Registro PDF de la página solicitada
// @Tags         records
// @Security     Bearer
// @Produce      application/pdf
// @Param        page    query  int     false  "Página"  default(1)
// @Param        limit   query  int     false  "Límite"  default(5)
// @Param        search  query  string  false  "Búsqueda libre"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ins/report.pdf [get]
// @Router       /api/outs/report.pdf [get]
// @Router       /api/retur-gudangs/report.pdf [get]
// @Router       /api/retur-pabriks/report.pdf [get]
func (h *RecordHandler) Report(c *fiber.Ctx) error {
	q, err := h.uc.ParseListQuery(c.Query("page"), c.Query("limit"), query(c, "search"))
	if err != nil {
		return h.fail(c, "read", err)
	}
	doc, err := h.uc.Report(c.UserContext(), q)
	if err != nil {
		return h.fail(c, "read", err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s-%d.pdf"`, h.uc.Schema().Collection, q.Page))
	return c.Send(doc)
}

// query copia el parámetro: fiber devuelve cadenas sobre el buffer de la petición,
// que se reutiliza al terminar el handler.
func query(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Query(key))
}

// fail traduce los errores de dominio a los sobres de error de la API.
func (h *RecordHandler) fail(c *fiber.Ctx, verb string, err error) error {
	schema := h.uc.Schema()

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError(ve.Message, ve.Errors))
	case errors.Is(err, errInvalidBody):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError(MessageInvalidBody, nil))
	case errors.Is(err, domain.ErrMissingID):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewError(MessageMissingID, nil))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewError(schema.Name+" not found", nil))
	}

	h.log.Error().Err(err).
		Str("resource", schema.Collection).
		Str("op", verb).
		Str("request_id", RequestIDFrom(c)).
		Msg("fallo del almacén")

	name := schema.Name
	if verb == "read" {
		name = schema.ListName
	}
	msg := "Failed to " + verb + " " + name
	if verb == "delete" {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError(msg, err.Error()))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.NewError(msg, nil))
}

// decodeBody decodifica el cuerpo conservando los números como json.Number.
// Un cuerpo vacío equivale a un objeto vacío (la validación reporta todos los campos).
func decodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: datos tras el objeto JSON", errInvalidBody)
	}
	return v, nil
}
