package ports

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// Notifier puerto de eventos hacia la capa de presentación, para refrescar vistas.
// La entrega es al-menos-una-vez; los consumidores deben ser idempotentes.
type Notifier interface {
	OnTransferCreated(record entity.TransferRecord)
	OnTransferStateChanged(record entity.TransferRecord, oldState, newState entity.TransferStatus)
	OnBinCodesChanged(binID string)
	OnInventoryReconciled(binID string)
}

// NopNotifier implementación nula, útil en tests y herramientas de línea de comandos.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) OnTransferCreated(entity.TransferRecord) {}
func (NopNotifier) OnTransferStateChanged(entity.TransferRecord, entity.TransferStatus, entity.TransferStatus) {
}
func (NopNotifier) OnBinCodesChanged(string)       {}
func (NopNotifier) OnInventoryReconciled(string)   {}
