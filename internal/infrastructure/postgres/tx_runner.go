package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Almacen-api/internal/application/reconcile"
	"github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements transfer.TxRunner and reconcile.TxRunner.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ reconcile.TxRunner = (*ReconcileTxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios de asignación atados a esa tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	transferRepo repository.TransferRepository,
	demandRepo repository.DemandRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	transferRepo := NewTransferRepository(tx)
	demandRepo := NewDemandRepository(tx)

	if err := fn(transferRepo, demandRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReconcileTxRunner ejecuta las escrituras de una reconciliación de inventario
// dentro de una transacción.
type ReconcileTxRunner struct {
	pool *pgxpool.Pool
}

// NewReconcileTxRunner construye el runner con el pool.
func NewReconcileTxRunner(pool *pgxpool.Pool) *ReconcileTxRunner {
	return &ReconcileTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo de inventario atado a la tx
// y hace Commit o Rollback.
func (r *ReconcileTxRunner) Run(ctx context.Context, fn func(inv repository.InventoryRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
