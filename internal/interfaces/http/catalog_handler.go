package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/usecase"
)

// CatalogHandler CRUD de un tipo de catálogo (artículos, unidades o tipos de moneda).
// Se monta una instancia por tipo.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear entrada de catálogo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string              true  "items | units | money-types"
// @Param        body  body  dto.CatalogRequest  true  "Nombre"
// @Success      201   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/{kind} [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetCaller(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada de catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "items | units | money-types"
// @Param        id    path  string  true  "ID"
// @Success      200  {object}  dto.CatalogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetCaller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        kind    path   string  true   "items | units | money-types"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.CatalogListResponse
// @Router       /api/{kind} [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetCaller(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar entrada de catálogo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string              true  "items | units | money-types"
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.CatalogRequest  true  "Nombre"
// @Success      200   {object}  dto.CatalogResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.CatalogRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetCaller(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar entrada de catálogo y las compras que la usan
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        kind     path   string  true   "items | units | money-types"
// @Param        id       path   string  true   "ID"
// @Param        dry_run  query  bool    false  "Simular"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Delete(c.UserContext(), GetCaller(c), id, dryRun(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
