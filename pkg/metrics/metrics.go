package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del núcleo de traslados, expuestos en /metrics.
var (
	// AllocationsTotal asignaciones por resultado: ok, contention, error.
	AllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_allocations_total",
		Help: "Asignaciones de traslado por resultado.",
	}, []string{"result"})

	// LockContentionTotal carreras perdidas por una ubicación ya comprometida.
	LockContentionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_lock_contention_total",
		Help: "Intentos de bloqueo rechazados por contención.",
	})

	// TransferTransitionsTotal transiciones de estado por estado destino.
	TransferTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "almacen_transfer_transitions_total",
		Help: "Transiciones de estado de traslados.",
	}, []string{"to"})

	// ReconcileConflictsTotal productos duplicados detectados al reconciliar.
	ReconcileConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_reconcile_conflicts_total",
		Help: "Conflictos de producto duplicado detectados.",
	})

	// ReconciliationsTotal reconciliaciones de inventario confirmadas.
	ReconciliationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "almacen_reconciliations_total",
		Help: "Reconciliaciones de inventario aplicadas.",
	})
)
