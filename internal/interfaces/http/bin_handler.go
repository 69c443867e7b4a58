package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reconcile"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BinHandler maneja las peticiones HTTP de reconciliación de ubicaciones e inventario.
type BinHandler struct {
	binProducts   *reconcile.BinProducts
	inventoryRows *reconcile.InventoryRows
}

// NewBinHandler construye el handler.
func NewBinHandler(binProducts *reconcile.BinProducts, inventoryRows *reconcile.InventoryRows) *BinHandler {
	return &BinHandler{binProducts: binProducts, inventoryRows: inventoryRows}
}

// MoveProductCode godoc
// @Summary      Mover un código por defecto entre ubicaciones
// @Description  Transacción lógica: el código nunca queda en ambas ubicaciones ni en
//
//	ninguna. Si la compensación falla se reporta IRRECONCILABLE_STATE.
//
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveProductCodeRequest  true  "origen, destino y código"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/bins/move-code [post]
func (h *BinHandler) MoveProductCode(c *fiber.Ctx) error {
	var in dto.MoveProductCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.binProducts.MoveProductCode(c.Context(), in.SourceBinID, in.TargetBinID, in.Code); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "código movido"})
}

// Update godoc
// @Summary      Renombrar y/o retipar una ubicación
// @Description  Solo emite una escritura si algún campo difiere del valor actual.
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la ubicación"
// @Param        body  body  dto.UpdateBinRequest  true  "nuevo código y/o tipo"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bins/{id} [put]
func (h *BinHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBinRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var kind *entity.BinKind
	if in.Kind != nil {
		k := entity.BinKind(*in.Kind)
		kind = &k
	}
	if err := h.binProducts.RenameOrRetype(c.Context(), c.Params("id"), in.Code, kind); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "ubicación actualizada"})
}

// Reconcile godoc
// @Summary      Reconciliar el inventario de una ubicación
// @Description  Valida el lote completo antes de escribir. Si una creación colisiona
//
//	con un producto existente devuelve 409 con el conflicto; resolverlo vía
//	/api/reconcile/conflicts/{id}.
//
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la ubicación"
// @Param        body  body  dto.ReconcileBinRequest  true  "ediciones (actualizaciones y creaciones)"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictResponse
// @Router       /api/bins/{id}/reconcile [post]
func (h *BinHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileBinRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	conflict, err := h.inventoryRows.ReconcileBin(c.Context(), c.Params("id"), dto.ToRowEdits(in.Edits))
	if err != nil {
		return respondError(c, err)
	}
	if conflict != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":     "DUPLICATE_PRODUCT",
			"conflict": dto.ToConflictResponse(*conflict),
		})
	}
	return c.JSON(fiber.Map{"message": "inventario reconciliado"})
}

// ResolveConflict godoc
// @Summary      Resolver un conflicto de producto duplicado
// @Description  Segunda fase de la reconciliación: MERGE suma cantidades en la fila
//
//	existente, ADD_AS_NEW crea una segunda fila. Si quedan más conflictos del mismo
//	lote se devuelve el siguiente.
//
// @Tags         bins
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del conflicto"
// @Param        body  body  dto.ResolveConflictRequest  true  "decisión"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ConflictResponse
// @Router       /api/reconcile/conflicts/{id} [post]
func (h *BinHandler) ResolveConflict(c *fiber.Ctx) error {
	var in dto.ResolveConflictRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	next, err := h.inventoryRows.ResolveConflict(c.Context(), c.Params("id"), reconcile.Decision(in.Decision))
	if err != nil {
		return respondError(c, err)
	}
	if next != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":     "DUPLICATE_PRODUCT",
			"conflict": dto.ToConflictResponse(*next),
		})
	}
	return c.JSON(fiber.Map{"message": "conflicto resuelto, reconciliación aplicada"})
}
