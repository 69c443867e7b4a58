package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/reconcile"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Matcher       *transfer.Matcher
	Lifecycle     *transfer.Lifecycle
	Batches       *transfer.BatchService
	BinProducts   *reconcile.BinProducts
	InventoryRows *reconcile.InventoryRows
	Warehouses    repository.WarehouseRepository
	Bins          repository.BinRepository
	Inventory     repository.InventoryRepository
	Demand        repository.DemandRepository
	Transfers     repository.TransferRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Lecturas de referencia para la consola
	catalogHandler := NewCatalogHandler(deps.Warehouses, deps.Bins, deps.Inventory, deps.Demand)
	api.Get("/warehouses", catalogHandler.ListWarehouses)
	api.Get("/bins", catalogHandler.ListBins)
	api.Get("/inventory", catalogHandler.ListInventory)
	api.Get("/demand", catalogHandler.ListDemand)

	// Asignación y ciclo de vida de traslados
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Matcher, deps.Lifecycle)
	transfers.Get("/candidates", transferHandler.FindCandidates)
	transfers.Post("/allocate", transferHandler.Allocate)
	transfers.Post("/:id/start", transferHandler.Start)
	transfers.Post("/:id/complete", transferHandler.Complete)
	transfers.Post("/:id/cancel", transferHandler.Cancel)

	// Lotes
	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.Transfers, deps.Batches)
	batches.Get("/", batchHandler.List)
	batches.Post("/complete", batchHandler.Complete)

	// Reconciliación de ubicaciones e inventario
	binHandler := NewBinHandler(deps.BinProducts, deps.InventoryRows)
	api.Post("/bins/move-code", binHandler.MoveProductCode)
	api.Put("/bins/:id", binHandler.Update)
	api.Post("/bins/:id/reconcile", binHandler.Reconcile)
	api.Post("/reconcile/conflicts/:id", binHandler.ResolveConflict)
}
