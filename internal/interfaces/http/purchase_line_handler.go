package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/usecase"
)

// PurchaseLineHandler libro de compras: CRUD de líneas, totales y exportación.
type PurchaseLineHandler struct {
	uc     *usecase.PurchaseLineUseCase
	ledger *usecase.LedgerUseCase
}

// NewPurchaseLineHandler construye el handler.
func NewPurchaseLineHandler(uc *usecase.PurchaseLineUseCase, ledger *usecase.LedgerUseCase) *PurchaseLineHandler {
	return &PurchaseLineHandler{uc: uc, ledger: ledger}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Artículo, unidad, moneda y depósito deben ser de la empresa del usuario.
// @Tags         purchase-lines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseLineRequest  true  "Datos de la línea"
// @Success      201   {object}  dto.PurchaseLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/purchase-lines [post]
func (h *PurchaseLineHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseLineRequest
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
// @Summary      Obtener línea de compra
// @Tags         purchase-lines
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la línea"
// @Success      200  {object}  dto.PurchaseLineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id} [get]
func (h *PurchaseLineHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar libro de compras
// @Tags         purchase-lines
// @Security     Bearer
// @Produce      json
// @Param        depot_id  query  string  false  "Filtrar por depósito"
// @Param        limit     query  int     false  "Límite"   default(20)
// @Param        offset    query  int     false  "Offset"   default(0)
// @Success      200       {object}  dto.PurchaseLineListResponse
// @Router       /api/purchase-lines [get]
func (h *PurchaseLineHandler) List(c *fiber.Ctx) error {
	var f dto.PurchaseLineFilter
	if err := parseQuery(c, &f); err != nil {
		return err
	}
	limit, offset := page(c)
	out, err := h.uc.List(c.UserContext(), GetCaller(c), f, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar línea de compra
// @Tags         purchase-lines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la línea"
// @Param        body  body  dto.UpdatePurchaseLineRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PurchaseLineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id} [put]
func (h *PurchaseLineHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in dto.UpdatePurchaseLineRequest
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
// @Summary      Eliminar línea de compra
// @Tags         purchase-lines
// @Security     Bearer
// @Param        id   path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id} [delete]
func (h *PurchaseLineHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), GetCaller(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Total godoc
// @Summary      Total del libro de compras
// @Description  Suma cantidad × precio de las líneas visibles, con desglose por moneda.
// @Tags         purchase-lines
// @Security     Bearer
// @Produce      json
// @Param        depot_id  query  string  false  "Solo un depósito"
// @Success      200  {object}  dto.LedgerTotalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/total [get]
func (h *PurchaseLineHandler) Total(c *fiber.Ctx) error {
	var q dto.LedgerTotalQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.ledger.Total(c.UserContext(), GetCaller(c), q.DepotID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// TotalByDepot godoc
// @Summary      Totales por depósito y moneda
// @Tags         purchase-lines
// @Security     Bearer
// @Produce      json
// @Param        depot_id  query  string  false  "Solo un depósito"
// @Success      200  {object}  dto.LedgerByDepotResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/total-by-depot [get]
func (h *PurchaseLineHandler) TotalByDepot(c *fiber.Ctx) error {
	var q dto.LedgerTotalQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.ledger.TotalByDepot(c.UserContext(), GetCaller(c), q.DepotID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar libro de compras
// @Tags         purchase-lines
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        depot_id  query  string  false  "Solo un depósito"
// @Param        format    query  string  false  "xlsx | pdf"  default(xlsx)
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/export [get]
func (h *PurchaseLineHandler) Export(c *fiber.Ctx) error {
	var q dto.ExportQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	res, err := h.ledger.Export(c.UserContext(), GetCaller(c), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	return c.Send(res.Data)
}
