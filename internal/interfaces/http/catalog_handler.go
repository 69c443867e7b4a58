package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// CatalogHandler expone las lecturas de referencia que consume la consola:
// bodegas, ubicaciones, inventario y demanda.
type CatalogHandler struct {
	warehouses repository.WarehouseRepository
	bins       repository.BinRepository
	inventory  repository.InventoryRepository
	demand     repository.DemandRepository
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(
	warehouses repository.WarehouseRepository,
	bins repository.BinRepository,
	inventory repository.InventoryRepository,
	demand repository.DemandRepository,
) *CatalogHandler {
	return &CatalogHandler{warehouses: warehouses, bins: bins, inventory: inventory, demand: demand}
}

// ListWarehouses godoc
// @Summary      Listar bodegas
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	list, err := h.warehouses.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WarehouseResponse{ID: w.ID, Code: w.Code, CreatedAt: w.CreatedAt})
	}
	return c.JSON(fiber.Map{"total": len(out), "warehouses": out})
}

// ListBins godoc
// @Summary      Listar ubicaciones de una bodega
// @Tags         catalog
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        kind          query  string  false  "PICK_UP | INVENTORY | CART | AISLE"
// @Success      200  {array}   dto.BinResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/bins [get]
func (h *CatalogHandler) ListBins(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	var kind *entity.BinKind
	if k := c.Query("kind"); k != "" {
		bk := entity.BinKind(k)
		if !bk.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de ubicación desconocido"})
		}
		kind = &bk
	}
	list, err := h.bins.ListByWarehouse(c.Context(), warehouseID, kind)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BinResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.ToBinResponse(*b))
	}
	return c.JSON(fiber.Map{"total": len(out), "bins": out})
}

// ListInventory godoc
// @Summary      Listar inventario de una bodega
// @Tags         catalog
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        bin_id        query  string  false  "Limitar a una ubicación"
// @Success      200  {array}   dto.InventoryItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *CatalogHandler) ListInventory(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	var binID *string
	if b := c.Query("bin_id"); b != "" {
		binID = &b
	}
	list, err := h.inventory.ListByWarehouse(c.Context(), warehouseID, binID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, dto.ToInventoryItemResponse(*it))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// ListDemand godoc
// @Summary      Listar demanda de una bodega
// @Tags         catalog
// @Produce      json
// @Param        warehouse_id  query  string  true   "Bodega destino"
// @Param        status        query  string  false  "OPEN | ALLOCATED (por defecto OPEN)"
// @Success      200  {array}   dto.DemandTaskResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/demand [get]
func (h *CatalogHandler) ListDemand(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id requerido"})
	}
	status := entity.DemandStatus(c.Query("status", string(entity.DemandOpen)))
	list, err := h.demand.ListByWarehouse(c.Context(), warehouseID, status)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DemandTaskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToDemandTaskResponse(*t))
	}
	return c.JSON(fiber.Map{"total": len(out), "tasks": out})
}
