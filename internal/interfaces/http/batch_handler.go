package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// BatchHandler maneja las peticiones HTTP de lotes de traslado.
type BatchHandler struct {
	transfers repository.TransferRepository
	batches   *transfer.BatchService
}

// NewBatchHandler construye el handler.
func NewBatchHandler(transfers repository.TransferRepository, batches *transfer.BatchService) *BatchHandler {
	return &BatchHandler{transfers: transfers, batches: batches}
}

// List godoc
// @Summary      Lotes de traslado hacia una bodega
// @Description  Agrupa los traslados por BatchID (o por la clave heredada
//
//	ubicación origen + tarea), ordenados por actividad más reciente.
//
// @Tags         batches
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega destino"
// @Param        status        query  string  false  "Filtrar por estado del traslado"
// @Success      200  {array}   dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	var status *entity.TransferStatus
	if s := c.Query("status"); s != "" {
		st := entity.TransferStatus(s)
		if !st.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
		}
		status = &st
	}

	records, err := h.transfers.ListByDestinationWarehouse(c.Context(), warehouseID, status)
	if err != nil {
		return respondError(c, err)
	}
	flat := make([]entity.TransferRecord, 0, len(records))
	for _, r := range records {
		flat = append(flat, *r)
	}
	batches := transfer.Group(flat)
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.ToBatchResponse(b))
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// Complete godoc
// @Summary      Completar un lote entero
// @Description  Completa secuencialmente cada miembro. Sin rollback compensatorio:
//
//	un resultado mixto se reporta como PARTIAL_FAILURE con el detalle por miembro
//	para reintentar solo los fallidos.
//
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchKeyRequest  true  "batch_id, o source_bin_id + task_id para lotes heredados"
// @Success      200  {array}   dto.MemberOutcomeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/complete [post]
func (h *BatchHandler) Complete(c *fiber.Ctx) error {
	var in dto.BatchKeyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var key entity.BatchKey
	switch {
	case in.BatchID != nil && *in.BatchID != "":
		key = entity.RealBatchKey(*in.BatchID)
	case in.SourceBinID != "":
		key = entity.LegacyBatchKey(in.SourceBinID, in.TaskID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere batch_id o source_bin_id"})
	}

	batch, err := h.batches.LoadBatch(c.Context(), key)
	if err != nil {
		return respondError(c, err)
	}
	outcomes, err := h.batches.CompleteBatch(c.Context(), batch)
	if err != nil {
		if errors.Is(err, domain.ErrPartialFailure) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":     "PARTIAL_FAILURE",
				"message":  err.Error(),
				"outcomes": dto.ToMemberOutcomes(outcomes),
			})
		}
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"outcomes": dto.ToMemberOutcomes(outcomes)})
}
