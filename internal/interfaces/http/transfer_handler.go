package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferHandler maneja las peticiones HTTP de asignación y ciclo de vida de traslados.
type TransferHandler struct {
	matcher   *transfer.Matcher
	lifecycle *transfer.Lifecycle
}

// NewTransferHandler construye el handler.
func NewTransferHandler(matcher *transfer.Matcher, lifecycle *transfer.Lifecycle) *TransferHandler {
	return &TransferHandler{matcher: matcher, lifecycle: lifecycle}
}

// FindCandidates godoc
// @Summary      Candidatos de traslado para un producto
// @Description  Inventario del producto en las demás bodegas, agrupado por bodega y
//
//	ubicación. Las ubicaciones comprometidas se anotan blocked y no son seleccionables.
//
// @Tags         transfers
// @Produce      json
// @Param        product_code          query  string  true   "Código de producto"
// @Param        exclude_warehouse_id  query  string  false  "Bodega que demanda (se excluye de los orígenes)"
// @Success      200  {array}   dto.CandidateWarehouseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers/candidates [get]
func (h *TransferHandler) FindCandidates(c *fiber.Ctx) error {
	productCode := c.Query("product_code")
	excludeWarehouseID := c.Query("exclude_warehouse_id")
	candidates, err := h.matcher.FindCandidates(c.Context(), productCode, excludeWarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":      len(candidates),
		"warehouses": dto.ToCandidatesResponse(candidates),
	})
}

// Allocate godoc
// @Summary      Asignar inventario seleccionado a una demanda
// @Description  Crea un traslado PENDING por cada fila seleccionada (cantidad completa,
//
//	sin división) y bloquea cada ubicación origen. Todo-o-nada: si una ubicación ya
//	está comprometida no se crea nada y no queda ningún bloqueo.
//
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "demanda + filas de inventario seleccionadas"
// @Success      201  {array}   dto.TransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/allocate [post]
func (h *TransferHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	demand := entity.DemandTask{
		ID:                     in.TaskID,
		ProductCode:            in.ProductCode,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DestinationBinID:       in.DestinationBinID,
		RequiredQuantity:       in.RequiredQuantity,
		CreatedAt:              time.Now(),
	}
	records, err := h.matcher.Allocate(c.Context(), demand, in.SelectedInventoryIDs)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.ToTransferResponse(r))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transfers": out})
}

// Start godoc
// @Summary      Iniciar un traslado (PENDING → IN_PROCESS)
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/start [post]
func (h *TransferHandler) Start(c *fiber.Ctx) error {
	if err := h.lifecycle.Start(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado en proceso"})
}

// Complete godoc
// @Summary      Completar un traslado (IN_PROCESS → COMPLETED)
// @Description  El llamador confirma el movimiento físico; al completar se libera el
//
//	bloqueo de la ubicación origen.
//
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	if err := h.lifecycle.Complete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado completado"})
}

// Cancel godoc
// @Summary      Cancelar un traslado (solo desde PENDING)
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	if err := h.lifecycle.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "traslado cancelado"})
}
