package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/usecase"
)

// DepotHandler maneja las peticiones HTTP para depósitos (protegido).
type DepotHandler struct {
	uc *usecase.DepotUseCase
}

// NewDepotHandler construye el handler.
func NewDepotHandler(uc *usecase.DepotUseCase) *DepotHandler {
	return &DepotHandler{uc: uc}
}

// Create godoc
// @Summary      Crear depósito
// @Tags         depots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepotRequest  true  "Datos del depósito"
// @Success      201   {object}  dto.DepotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/depots [post]
func (h *DepotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepotRequest
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
// @Summary      Obtener depósito por ID
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del depósito"
// @Success      200  {object}  dto.DepotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [get]
func (h *DepotHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar depósitos
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.DepotListResponse
// @Router       /api/depots [get]
func (h *DepotHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetCaller(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar depósito
// @Tags         depots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del depósito"
// @Param        body  body  dto.UpdateDepotRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.DepotResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [put]
func (h *DepotHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.UpdateDepotRequest
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
// @Summary      Eliminar depósito y sus compras
// @Tags         depots
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del depósito"
// @Param        dry_run  query  bool    false  "Simular"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/depots/{id} [delete]
func (h *DepotHandler) Delete(c *fiber.Ctx) error {
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
