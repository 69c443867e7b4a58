package events

import (
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier implementación del Notifier que publica los eventos del núcleo
// como logs estructurados. La capa de presentación los consume del stream;
// la entrega es al-menos-una-vez, los consumidores deben ser idempotentes.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador sobre el logger de la app.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) OnTransferCreated(record entity.TransferRecord) {
	n.log.Info().
		Str("event", "transfer_created").
		Str("transfer_id", record.ID).
		Str("source_bin_id", record.SourceBinID).
		Str("destination_bin_id", record.DestinationBinID).
		Str("product_code", record.ProductCode).
		Int64("quantity", record.Quantity).
		Msg("traslado creado")
}

func (n *LogNotifier) OnTransferStateChanged(record entity.TransferRecord, oldState, newState entity.TransferStatus) {
	n.log.Info().
		Str("event", "transfer_state_changed").
		Str("transfer_id", record.ID).
		Str("old_state", string(oldState)).
		Str("new_state", string(newState)).
		Msg("traslado cambió de estado")
}

func (n *LogNotifier) OnBinCodesChanged(binID string) {
	n.log.Info().
		Str("event", "bin_codes_changed").
		Str("bin_id", binID).
		Msg("códigos de la ubicación modificados")
}

func (n *LogNotifier) OnInventoryReconciled(binID string) {
	n.log.Info().
		Str("event", "inventory_reconciled").
		Str("bin_id", binID).
		Msg("inventario de la ubicación reconciliado")
}
